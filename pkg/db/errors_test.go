package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error is not a violation")
	}
	pgErr := errors.New(`ERROR: duplicate key value violates unique constraint "ux_low_stock_alerts_item_window" (SQLSTATE 23505)`)
	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("postgres duplicate key should match")
	}
	if !IsUniqueViolation(pgErr, "ux_low_stock_alerts_item_window") {
		t.Fatal("constraint name should match")
	}
	if IsUniqueViolation(pgErr, "ux_other_constraint") {
		t.Fatal("different constraint should not match")
	}
	sqliteErr := errors.New("UNIQUE constraint failed: low_stock_alerts.inventory_item_id, low_stock_alerts.window_bucket")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("sqlite unique failure should match")
	}
	if !IsUniqueViolation(sqliteErr, "ux_low_stock_alerts_item_window") {
		t.Fatal("sqlite messages carry columns, not constraint names, and should still match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "ux_low_stock_alerts_item_window") {
		t.Fatal("unrelated error should not match")
	}
}
