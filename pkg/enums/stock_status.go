package enums

import "fmt"

// StockStatus maps to the stock_status enum in Postgres. Transitions are
// owned by the inventory subsystem; the alerting pipeline only reads it.
type StockStatus string

const (
	StockStatusActive      StockStatus = "active"
	StockStatusQuarantined StockStatus = "quarantined"
	StockStatusDisposed    StockStatus = "disposed"
)

var validStockStatuses = []StockStatus{
	StockStatusActive,
	StockStatusQuarantined,
	StockStatusDisposed,
}

// IsValid checks whether the given status matches the canonical enum.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw strings into StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
