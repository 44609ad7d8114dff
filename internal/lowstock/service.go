package lowstock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/velora-health/medstock-backend/internal/inventory"
	dbpkg "github.com/velora-health/medstock-backend/pkg/db"
	"github.com/velora-health/medstock-backend/pkg/db/models"
	"github.com/velora-health/medstock-backend/pkg/enums"
	pkgerrors "github.com/velora-health/medstock-backend/pkg/errors"
	"github.com/velora-health/medstock-backend/pkg/logger"
	"github.com/velora-health/medstock-backend/pkg/metrics"
	"github.com/velora-health/medstock-backend/pkg/outbox"
	"github.com/velora-health/medstock-backend/pkg/outbox/payloads"
	"github.com/velora-health/medstock-backend/pkg/pagination"
)

const (
	defaultItemStepTimeout = 10 * time.Second
	scanSource             = "cron:low-stock-scan"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type itemReader interface {
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error)
}

// ServiceParams configure the low stock pipeline.
type ServiceParams struct {
	Logger            *logger.Logger
	DB                txRunner
	Detector          *Detector
	Items             itemReader
	Alerts            Repository
	Outbox            outboxEmitter
	Metrics           *metrics.AlertPipelineMetrics
	Cooldown          time.Duration
	FallbackRecipient string
	ItemStepTimeout   time.Duration
	Now               func() time.Time
}

// Summary reports what one scan run did.
type Summary struct {
	Scanned    int
	Emitted    int
	Suppressed int
	RaceNoOps  int
	Failed     int
}

// Service runs the detect -> dedup -> alert -> emit pipeline. Each item gets
// its own transaction so one failure never poisons the rest of the run.
type Service struct {
	logg              *logger.Logger
	db                txRunner
	detector          *Detector
	items             itemReader
	alerts            Repository
	outbox            outboxEmitter
	pipelineMetrics   *metrics.AlertPipelineMetrics
	deduper           *Deduper
	fallbackRecipient string
	itemStepTimeout   time.Duration
	now               func() time.Time
}

// NewService wires the pipeline dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Detector == nil {
		return nil, fmt.Errorf("detector required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("inventory reader required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	deduper, err := NewDeduper(params.Cooldown)
	if err != nil {
		return nil, err
	}
	stepTimeout := params.ItemStepTimeout
	if stepTimeout <= 0 {
		stepTimeout = defaultItemStepTimeout
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		logg:              params.Logger,
		db:                params.DB,
		detector:          params.Detector,
		items:             params.Items,
		alerts:            params.Alerts,
		outbox:            params.Outbox,
		pipelineMetrics:   params.Metrics,
		deduper:           deduper,
		fallbackRecipient: params.FallbackRecipient,
		itemStepTimeout:   stepTimeout,
		now:               now,
	}, nil
}

type itemOutcome int

const (
	outcomeEmitted itemOutcome = iota
	outcomeSuppressed
	outcomeRaceNoOp
)

// Run scans all breached items once. Item failures are isolated and combined
// into the returned error; the summary always reflects what happened.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	summary := Summary{}
	var itemErrs []error

	scanned, err := s.detector.Each(ctx, func(item inventory.BreachedItem) error {
		outcome, itemErr := s.processItem(ctx, item)
		if itemErr != nil {
			summary.Failed++
			s.pipelineMetrics.IncItemError()
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"inventory_item_id": item.ItemID.String(),
				"facility_id":       item.FacilityID.String(),
			})
			s.logg.Error(logCtx, "low stock item step failed", itemErr)
			itemErrs = append(itemErrs, fmt.Errorf("item %s: %w", item.ItemID, itemErr))
			return nil
		}
		switch outcome {
		case outcomeEmitted:
			summary.Emitted++
			s.pipelineMetrics.IncEmitted()
		case outcomeSuppressed:
			summary.Suppressed++
			s.pipelineMetrics.IncSuppressed()
		case outcomeRaceNoOp:
			summary.RaceNoOps++
			s.pipelineMetrics.IncRaceNoOp()
		}
		return nil
	})
	summary.Scanned = scanned
	if err != nil {
		itemErrs = append(itemErrs, err)
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"scanned":    summary.Scanned,
		"emitted":    summary.Emitted,
		"suppressed": summary.Suppressed,
		"race_noops": summary.RaceNoOps,
		"failed":     summary.Failed,
	})
	s.logg.Info(logCtx, "low stock scan complete")

	return summary, multierr.Combine(itemErrs...)
}

// processItem applies the dedup decision and, when allowed, inserts the alert
// row and queues the outbox event in one transaction. The alert insert comes
// first so delivery is never promised without a durable record.
func (s *Service) processItem(ctx context.Context, item inventory.BreachedItem) (itemOutcome, error) {
	itemCtx, cancel := context.WithTimeout(ctx, s.itemStepTimeout)
	defer cancel()

	// Stock may have moved since the scan selected this item. Re-read and
	// skip anything that no longer qualifies.
	fresh, err := s.items.GetItem(itemCtx, item.ItemID)
	if err != nil {
		return outcomeSuppressed, fmt.Errorf("reload item: %w", err)
	}
	if fresh == nil || fresh.StockStatus == enums.StockStatusDisposed || fresh.CurrentStock > fresh.ReorderPoint {
		return outcomeSuppressed, nil
	}
	item.CurrentStock = fresh.CurrentStock
	item.ReorderPoint = fresh.ReorderPoint

	outcome := outcomeSuppressed
	err = s.db.WithTx(itemCtx, func(tx *gorm.DB) error {
		repo := s.alerts.WithTx(tx)
		latest, err := repo.LatestForItem(itemCtx, item.ItemID)
		if err != nil {
			return fmt.Errorf("load latest alert: %w", err)
		}

		now := s.now().UTC()
		state := s.deduper.Classify(latest, now)
		if !s.deduper.ShouldAlert(state) {
			outcome = outcomeSuppressed
			return nil
		}

		alert := &models.LowStockAlert{
			InventoryItemID: item.ItemID,
			FacilityID:      item.FacilityID,
			MedicationID:    item.MedicationID,
			MedicationName:  item.MedicationName,
			FacilityName:    item.FacilityName,
			CurrentStock:    item.CurrentStock,
			ReorderPoint:    item.ReorderPoint,
			WindowBucket:    s.deduper.WindowBucket(now),
			CreatedAt:       now,
		}
		if err := repo.Create(itemCtx, alert); err != nil {
			return fmt.Errorf("insert alert: %w", err)
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventLowStockAlertRaised,
			AggregateType: enums.AggregateLowStockAlert,
			AggregateID:   alert.ID,
			Source:        scanSource,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.LowStockAlertRaisedEvent{
				AlertID:         alert.ID,
				InventoryItemID: item.ItemID,
				FacilityID:      item.FacilityID,
				MedicationID:    item.MedicationID,
				MedicationName:  item.MedicationName,
				FacilityName:    item.FacilityName,
				CurrentStock:    item.CurrentStock,
				ReorderPoint:    item.ReorderPoint,
				Recipient:       s.recipientFor(item),
				RaisedAt:        now,
			},
		}
		if err := s.outbox.Emit(itemCtx, tx, event); err != nil {
			return fmt.Errorf("emit alert event: %w", err)
		}
		outcome = outcomeEmitted
		return nil
	})
	if err != nil {
		// A concurrent run already alerted this item for the same window.
		if dbpkg.IsUniqueViolation(err, "ux_low_stock_alerts_item_window") {
			return outcomeRaceNoOp, nil
		}
		return outcome, err
	}
	return outcome, nil
}

func (s *Service) recipientFor(item inventory.BreachedItem) string {
	if item.AlertEmail != "" {
		return item.AlertEmail
	}
	return s.fallbackRecipient
}

// ListParams configures alert listing for the ops API.
type ListParams struct {
	FacilityID string
	Limit      int
	Cursor     string
}

// ListResult wraps returned alerts and the cursor for the next page.
type ListResult struct {
	Items  []models.LowStockAlert `json:"items"`
	Cursor string                 `json:"cursor"`
}

// List returns alert history, newest first.
func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listAlertsParams{Limit: params.Limit}
	if params.FacilityID != "" {
		facilityID, err := uuid.Parse(params.FacilityID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid facility id")
		}
		query.FacilityID = facilityID
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.alerts.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list alerts")
	}
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}
