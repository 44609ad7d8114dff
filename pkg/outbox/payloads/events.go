package payloads

import (
	"time"

	"github.com/google/uuid"
)

// LowStockAlertRaisedEvent carries everything delivery needs so consumers
// never re-read inventory state that may have moved on since the scan.
type LowStockAlertRaisedEvent struct {
	AlertID         uuid.UUID `json:"alert_id"`
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	FacilityID      uuid.UUID `json:"facility_id"`
	MedicationID    uuid.UUID `json:"medication_id"`
	MedicationName  string    `json:"medication_name"`
	FacilityName    string    `json:"facility_name"`
	CurrentStock    int       `json:"current_stock"`
	ReorderPoint    int       `json:"reorder_point"`
	Recipient       string    `json:"recipient,omitempty"`
	RaisedAt        time.Time `json:"raised_at"`
}
