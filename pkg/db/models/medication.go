package models

import (
	"time"

	"github.com/google/uuid"
)

// Medication is the catalog entry referenced by inventory items.
type Medication struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Strength  string    `gorm:"column:strength;type:text"`
	Form      string    `gorm:"column:form;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
