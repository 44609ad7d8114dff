package lowstock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-health/medstock-backend/pkg/db/models"
	"github.com/velora-health/medstock-backend/pkg/pagination"
)

// Repository exposes persistence helpers for low stock alerts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, alert *models.LowStockAlert) error
	LatestForItem(ctx context.Context, itemID uuid.UUID) (*models.LowStockAlert, error)
	List(ctx context.Context, params listAlertsParams) ([]models.LowStockAlert, *pagination.Cursor, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an alert repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listAlertsParams struct {
	FacilityID uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, alert *models.LowStockAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// LatestForItem returns the most recent alert for the item, or nil when the
// item has never alerted.
func (r *repositoryImpl) LatestForItem(ctx context.Context, itemID uuid.UUID) (*models.LowStockAlert, error) {
	var alert models.LowStockAlert
	err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listAlertsParams) ([]models.LowStockAlert, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.LowStockAlert{})
	if params.FacilityID != uuid.Nil {
		query = query.Where("facility_id = ?", params.FacilityID)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var alerts []models.LowStockAlert
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&alerts).Error; err != nil {
		return nil, nil, err
	}

	if len(alerts) > normalized {
		next := alerts[normalized]
		alerts = alerts[:normalized]
		return alerts, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return alerts, nil, nil
}

// DeleteOlderThan prunes alert history past the retention horizon. Rows old
// enough to delete are always outside any cooldown window, so pruning never
// changes dedup decisions.
func (r *repositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.LowStockAlert{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
