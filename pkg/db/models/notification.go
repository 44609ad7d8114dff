package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velora-health/medstock-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to facilities.
type Notification struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey"`
	FacilityID uuid.UUID              `gorm:"type:uuid;not null"`
	Type       enums.NotificationType `gorm:"type:notification_type;not null"`
	Title      string                 `gorm:"type:text;not null"`
	Message    string                 `gorm:"type:text;not null"`
	Link       *string                `gorm:"type:text"`
	ReadAt     *time.Time             `gorm:"type:timestamptz"`
	CreatedAt  time.Time              `gorm:"type:timestamptz;autoCreateTime"`
}
