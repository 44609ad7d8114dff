package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-health/medstock-backend/pkg/db/models"
	"github.com/velora-health/medstock-backend/pkg/enums"
)

// BreachedItem is the denormalized snapshot the scan captures per breached
// item. Names and recipient come from the join so the alert row stays
// meaningful even if the catalog rows change later.
type BreachedItem struct {
	ItemID         uuid.UUID `gorm:"column:item_id"`
	FacilityID     uuid.UUID `gorm:"column:facility_id"`
	MedicationID   uuid.UUID `gorm:"column:medication_id"`
	CurrentStock   int       `gorm:"column:current_stock"`
	ReorderPoint   int       `gorm:"column:reorder_point"`
	MedicationName string    `gorm:"column:medication_name"`
	FacilityName   string    `gorm:"column:facility_name"`
	AlertEmail     string    `gorm:"column:alert_email"`
}

// Repository exposes read-only inventory queries. The alert pipeline never
// mutates inventory rows.
type Repository interface {
	FindBreachedItems(ctx context.Context, after uuid.UUID, limit int) ([]BreachedItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// FindBreachedItems returns non-disposed items at or below their reorder
// point, keyset-paged by item id so repeated calls walk the full table
// without OFFSET scans. Quarantined stock still counts: it is unavailable
// for dispensing, so a breach there is worth an alert.
func (r *repositoryImpl) FindBreachedItems(ctx context.Context, after uuid.UUID, limit int) ([]BreachedItem, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	var rows []BreachedItem
	err := r.db.WithContext(ctx).
		Table("inventory_items AS ii").
		Select("ii.id AS item_id, ii.facility_id, ii.medication_id, ii.current_stock, ii.reorder_point, "+
			"m.name AS medication_name, f.name AS facility_name, COALESCE(f.alert_email, '') AS alert_email").
		Joins("JOIN medications m ON m.id = ii.medication_id").
		Joins("JOIN facilities f ON f.id = ii.facility_id").
		Where("ii.stock_status <> ?", enums.StockStatusDisposed).
		Where("ii.current_stock <= ii.reorder_point").
		Where("ii.id > ?", after).
		Order("ii.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repositoryImpl) GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
