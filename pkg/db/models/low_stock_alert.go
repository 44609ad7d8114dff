package models

import (
	"time"

	"github.com/google/uuid"
)

// LowStockAlert is the durable record of one emitted alert. Rows are
// immutable after insert; the dedupe decision reads the most recent row per
// item. WindowBucket is created_at truncated to the cooldown window and is
// covered by ux_low_stock_alerts_item_window so two concurrent runs cannot
// both insert for the same item and window.
type LowStockAlert struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	InventoryItemID uuid.UUID `gorm:"column:inventory_item_id;type:uuid;not null;index;uniqueIndex:ux_low_stock_alerts_item_window"`
	FacilityID      uuid.UUID `gorm:"column:facility_id;type:uuid;not null;index"`
	MedicationID    uuid.UUID `gorm:"column:medication_id;type:uuid;not null"`
	MedicationName  string    `gorm:"column:medication_name;type:text;not null"`
	FacilityName    string    `gorm:"column:facility_name;type:text;not null"`
	CurrentStock    int       `gorm:"column:current_stock;not null"`
	ReorderPoint    int       `gorm:"column:reorder_point;not null"`
	WindowBucket    time.Time `gorm:"column:window_bucket;not null;uniqueIndex:ux_low_stock_alerts_item_window"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime;index"`
}
