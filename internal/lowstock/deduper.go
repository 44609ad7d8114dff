package lowstock

import (
	"errors"
	"time"

	"github.com/velora-health/medstock-backend/pkg/db/models"
)

// AlertState classifies an item against its alert history. State is always
// derived from the latest alert row, never from a flag on the inventory item.
type AlertState int

const (
	// NoPriorAlert means the item has never alerted.
	NoPriorAlert AlertState = iota
	// AlertWithin means the latest alert is still inside the cooldown window.
	AlertWithin
	// AlertExpired means the latest alert is older than the cooldown window.
	AlertExpired
)

func (s AlertState) String() string {
	switch s {
	case NoPriorAlert:
		return "no_prior_alert"
	case AlertWithin:
		return "alert_within_window"
	case AlertExpired:
		return "alert_expired"
	default:
		return "unknown"
	}
}

// Deduper decides whether a breached item may alert again.
type Deduper struct {
	cooldown time.Duration
}

// NewDeduper builds a deduper with the given cooldown window.
func NewDeduper(cooldown time.Duration) (*Deduper, error) {
	if cooldown <= 0 {
		return nil, errors.New("cooldown must be positive")
	}
	return &Deduper{cooldown: cooldown}, nil
}

// Classify maps the latest alert for an item to its dedup state.
func (d *Deduper) Classify(latest *models.LowStockAlert, now time.Time) AlertState {
	if latest == nil {
		return NoPriorAlert
	}
	if now.Sub(latest.CreatedAt) < d.cooldown {
		return AlertWithin
	}
	return AlertExpired
}

// ShouldAlert reports whether the state permits a new alert.
func (d *Deduper) ShouldAlert(state AlertState) bool {
	return state == NoPriorAlert || state == AlertExpired
}

// WindowBucket truncates now to the cooldown window. Two runs inside the same
// window compute the same bucket, which is what the unique index on
// (inventory_item_id, window_bucket) keys on.
func (d *Deduper) WindowBucket(now time.Time) time.Time {
	return now.UTC().Truncate(d.cooldown)
}

// Cooldown returns the configured window.
func (d *Deduper) Cooldown() time.Duration {
	return d.cooldown
}
