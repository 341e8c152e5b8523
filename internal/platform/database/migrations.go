package database

import (
	"context"
	"database/sql"
	"fmt"
)

// The exclusion constraint on booking_items keeps two blocking bookings from
// holding the same item over overlapping inclusive ranges.
var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id             VARCHAR(64) PRIMARY KEY,
		customer_name  TEXT NOT NULL,
		customer_phone TEXT NOT NULL DEFAULT '',
		start_date     TIMESTAMPTZ NOT NULL,
		end_date       TIMESTAMPTZ NOT NULL,
		total_value    NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (total_value >= 0),
		status         TEXT NOT NULL DEFAULT 'budget',
		category       TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (start_date <= end_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status_start ON bookings (status, start_date)`,
	`CREATE TABLE IF NOT EXISTS booking_items (
		booking_id VARCHAR(64) NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		item_id    VARCHAR(64) NOT NULL,
		period     TSTZRANGE NOT NULL,
		blocking   BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (booking_id, item_id),
		CONSTRAINT booking_items_no_overlap
			EXCLUDE USING gist (item_id WITH =, period WITH &&) WHERE (blocking)
	)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	return nil
}
