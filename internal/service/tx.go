package service

import (
	"context"
	"time"

	"bizzops/internal/apperror"

	"gorm.io/gorm"
)

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = time.RFC3339
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// parseDate parses an optional YYYY-MM-DD request field. Absent or empty
// defaults to now; a present but malformed value is a validation error.
func parseDate(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dateFormat, *s)
	if err != nil {
		return time.Time{}, apperror.Validation("invalid date " + *s + ", expected YYYY-MM-DD")
	}
	return t, nil
}
