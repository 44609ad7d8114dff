package lowstock

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/velora-health/medstock-backend/internal/inventory"
)

const defaultScanBatchSize = 200

type breachSource interface {
	FindBreachedItems(ctx context.Context, after uuid.UUID, limit int) ([]inventory.BreachedItem, error)
}

// Detector walks the inventory table in keyset batches and yields each
// breached item. It only reads; the decision to alert belongs to the service.
type Detector struct {
	source    breachSource
	batchSize int
}

// NewDetector builds a detector over the given source.
func NewDetector(source breachSource, batchSize int) (*Detector, error) {
	if source == nil {
		return nil, errors.New("breach source required")
	}
	if batchSize <= 0 {
		batchSize = defaultScanBatchSize
	}
	return &Detector{source: source, batchSize: batchSize}, nil
}

// Each invokes fn for every breached item and returns the number of items
// seen. A non-nil error from fn aborts the walk.
func (d *Detector) Each(ctx context.Context, fn func(inventory.BreachedItem) error) (int, error) {
	scanned := 0
	after := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return scanned, err
		}
		batch, err := d.source.FindBreachedItems(ctx, after, d.batchSize)
		if err != nil {
			return scanned, err
		}
		for _, item := range batch {
			if err := fn(item); err != nil {
				return scanned, err
			}
			scanned++
		}
		if len(batch) < d.batchSize {
			return scanned, nil
		}
		after = batch[len(batch)-1].ItemID
	}
}
