package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/velora-health/medstock-backend/pkg/db/models"
	"github.com/velora-health/medstock-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Facility{}, &models.Medication{}, &models.InventoryItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedItem(t *testing.T, gdb *gorm.DB, stock, reorder int, status enums.StockStatus, alertEmail string) models.InventoryItem {
	t.Helper()
	facility := models.Facility{Name: "Northgate Pharmacy", Timezone: "UTC", AlertEmail: alertEmail}
	if err := gdb.Create(&facility).Error; err != nil {
		t.Fatalf("seed facility: %v", err)
	}
	medication := models.Medication{Name: "Omeprazole 20mg"}
	if err := gdb.Create(&medication).Error; err != nil {
		t.Fatalf("seed medication: %v", err)
	}
	item := models.InventoryItem{
		FacilityID:   facility.ID,
		MedicationID: medication.ID,
		CurrentStock: stock,
		ReorderPoint: reorder,
		StockStatus:  status,
	}
	if err := gdb.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func TestFindBreachedItemsFiltersAndSnapshots(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	breached := seedItem(t, gdb, 2, 10, enums.StockStatusActive, "northgate@velora.example")
	quarantined := seedItem(t, gdb, 0, 10, enums.StockStatusQuarantined, "")
	seedItem(t, gdb, 90, 10, enums.StockStatusActive, "")
	seedItem(t, gdb, 0, 10, enums.StockStatusDisposed, "")

	rows, err := repo.FindBreachedItems(ctx, uuid.Nil, 50)
	if err != nil {
		t.Fatalf("find breached: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 breached rows, got %d", len(rows))
	}
	found := map[uuid.UUID]BreachedItem{}
	for _, r := range rows {
		found[r.ItemID] = r
	}
	if _, ok := found[quarantined.ID]; !ok {
		t.Fatal("quarantined breach should still be reported")
	}
	row, ok := found[breached.ID]
	if !ok {
		t.Fatalf("active breach missing from %+v", rows)
	}
	if row.MedicationName != "Omeprazole 20mg" || row.FacilityName != "Northgate Pharmacy" {
		t.Fatalf("snapshot names missing: %+v", row)
	}
	if row.AlertEmail != "northgate@velora.example" {
		t.Fatalf("unexpected recipient %q", row.AlertEmail)
	}
	if row.CurrentStock != 2 || row.ReorderPoint != 10 {
		t.Fatalf("stock snapshot mismatch: %+v", row)
	}
}

func TestFindBreachedItemsKeysetPaging(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedItem(t, gdb, 0, 10, enums.StockStatusActive, "")
	}

	seen := map[uuid.UUID]bool{}
	after := uuid.Nil
	for {
		batch, err := repo.FindBreachedItems(ctx, after, 2)
		if err != nil {
			t.Fatalf("find breached: %v", err)
		}
		for _, row := range batch {
			if seen[row.ItemID] {
				t.Fatalf("item %s returned twice", row.ItemID)
			}
			seen[row.ItemID] = true
		}
		if len(batch) < 2 {
			break
		}
		after = batch[len(batch)-1].ItemID
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct items across pages, got %d", len(seen))
	}
}

func TestFindBreachedItemsRejectsBadLimit(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	if _, err := repo.FindBreachedItems(context.Background(), uuid.Nil, 0); err == nil {
		t.Fatal("expected error for non-positive limit")
	}
}

func TestGetItem(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	item := seedItem(t, gdb, 5, 10, enums.StockStatusActive, "")
	found, err := repo.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if found == nil || found.ID != item.ID {
		t.Fatalf("unexpected item %+v", found)
	}

	missing, err := repo.GetItem(ctx, uuid.New())
	if err != nil {
		t.Fatalf("get missing item: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing item")
	}
}
