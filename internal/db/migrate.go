package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSlotPositions(db); err != nil {
		return fmt.Errorf("backfilling slot positions: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS slots (
		id         TEXT PRIMARY KEY,
		day        TEXT NOT NULL,
		time       TEXT NOT NULL,
		trainer    TEXT NOT NULL DEFAULT '',
		min_level  INTEGER NOT NULL DEFAULT 0,
		max_level  INTEGER NOT NULL DEFAULT 0,
		capacity   INTEGER NOT NULL DEFAULT 0 CHECK(capacity >= 0),
		created_at TEXT NOT NULL,
		CHECK(min_level <= max_level)
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_slots_key ON slots(day, time, trainer)`,

	`CREATE TABLE IF NOT EXISTS registrations (
		id            TEXT PRIMARY KEY,
		period        TEXT NOT NULL,
		choice        INTEGER NOT NULL CHECK(choice BETWEEN 1 AND 3),
		phone         TEXT NOT NULL,
		name          TEXT NOT NULL,
		level         TEXT NOT NULL DEFAULT '',
		frequency     INTEGER NOT NULL DEFAULT 0,
		permit_higher INTEGER NOT NULL DEFAULT 0,
		pref1         TEXT NOT NULL DEFAULT '',
		pref2         TEXT NOT NULL DEFAULT '',
		pref3         TEXT NOT NULL DEFAULT '',
		submitted_at  TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_registrations_dataset ON registrations(period, choice)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_identity ON registrations(period, choice, phone)`,

	`CREATE TABLE IF NOT EXISTS planning_status (
		period     TEXT PRIMARY KEY,
		document   TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// Catalog order for slot listing and option rendering.
	`ALTER TABLE slots ADD COLUMN position INTEGER NOT NULL DEFAULT 0`,

	// Free-text remark from the registration form.
	`ALTER TABLE registrations ADD COLUMN note TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillSlotPositions numbers slots that predate the position
// column in creation order, after any slot that already has a position.
// Idempotent: does nothing once every slot has a position.
func migrateBackfillSlotPositions(db *sql.DB) error {
	ctx := context.Background()

	var missing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots WHERE position = 0`).Scan(&missing); err != nil {
		return fmt.Errorf("checking slot positions: %w", err)
	}
	if missing == 0 {
		return nil
	}

	var next int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) FROM slots`).Scan(&next); err != nil {
		return fmt.Errorf("reading max slot position: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM slots WHERE position = 0 ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("listing unpositioned slots: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning slot id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	for _, id := range ids {
		next++
		if _, err := db.ExecContext(ctx, `UPDATE slots SET position = ? WHERE id = ? AND position = 0`, next, id); err != nil {
			return fmt.Errorf("updating slot position: %w", err)
		}
	}
	return nil
}
