package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velora-health/medstock-backend/pkg/enums"
)

// InventoryItem tracks per-facility, per-medication stock levels and the
// reorder threshold the low-stock pipeline evaluates. The pipeline never
// writes this table; alert state lives in low_stock_alerts.
type InventoryItem struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	FacilityID        uuid.UUID         `gorm:"column:facility_id;type:uuid;not null;index"`
	MedicationID      uuid.UUID         `gorm:"column:medication_id;type:uuid;not null;index"`
	CurrentStock      int               `gorm:"column:current_stock;not null;default:0"`
	ReorderPoint      int               `gorm:"column:reorder_point;not null;default:0"`
	MinimumStockLevel int               `gorm:"column:minimum_stock_level;not null;default:0"`
	MaximumStockLevel int               `gorm:"column:maximum_stock_level;not null;default:0"`
	UnitCost          decimal.Decimal   `gorm:"column:unit_cost;type:numeric(12,4);not null;default:0"`
	StockStatus       enums.StockStatus `gorm:"column:stock_status;type:stock_status;not null;default:'active'"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
