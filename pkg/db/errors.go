package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation, optionally scoped to a named constraint. Postgres includes the
// constraint name in its message; sqlite (the dev/test driver) reports the
// affected columns instead, so any sqlite unique violation matches.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	sqliteViolation := strings.Contains(msg, "UNIQUE constraint failed")
	if !sqliteViolation && !strings.Contains(msg, "duplicate key value") {
		return false
	}
	if constraintName == "" || sqliteViolation {
		return true
	}
	return strings.Contains(msg, constraintName)
}
