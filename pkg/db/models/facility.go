package models

import (
	"time"

	"github.com/google/uuid"
)

// Facility is a clinic or pharmacy location holding inventory.
type Facility struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;type:text;not null"`
	Timezone   string    `gorm:"column:timezone;type:text;not null;default:'UTC'"`
	AlertEmail string    `gorm:"column:alert_email;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
