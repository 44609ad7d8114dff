package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/velora-health/medstock-backend/pkg/migrate"
)

func TestLowStockAlertMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_low_stock_alerts.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no low stock alert migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS low_stock_alerts",
		"FOREIGN KEY (inventory_item_id) REFERENCES inventory_items(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_low_stock_alerts_item_window",
		"ON low_stock_alerts (inventory_item_id, window_bucket)",
		"DROP TABLE IF EXISTS low_stock_alerts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_inventory_items.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no inventory migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"FOREIGN KEY (facility_id) REFERENCES facilities(id) ON DELETE CASCADE",
		"FOREIGN KEY (medication_id) REFERENCES medications(id) ON DELETE CASCADE",
		"CHECK (current_stock >= 0)",
		"CHECK (reorder_point >= 0)",
		"DROP TABLE IF EXISTS inventory_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
