package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/slotter/internal/db"
	"github.com/alexanderramin/slotter/internal/domain"
)

// SQLiteSlotRepo implements SlotRepo using a SQLite database.
type SQLiteSlotRepo struct {
	db db.DBTX
}

func NewSQLiteSlotRepo(conn db.DBTX) *SQLiteSlotRepo {
	return &SQLiteSlotRepo{db: conn}
}

const slotColumns = `id, day, time, trainer, min_level, max_level, capacity, position, created_at`

// Create inserts s. A zero Position appends the slot to the end of the
// catalog and is written back to s.
func (r *SQLiteSlotRepo) Create(ctx context.Context, s *domain.Slot) error {
	if s.Position == 0 {
		var maxPos int
		if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) FROM slots`).Scan(&maxPos); err != nil {
			return fmt.Errorf("reading slot position: %w", err)
		}
		s.Position = maxPos + 1
	}

	query := `INSERT INTO slots (` + slotColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		strings.TrimSpace(s.Day),
		strings.TrimSpace(s.Time),
		strings.TrimSpace(s.Trainer),
		s.MinLevel,
		s.MaxLevel,
		s.Capacity,
		s.Position,
		formatStoredTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting slot %s: %w", s.Label(), err)
	}
	return nil
}

func (r *SQLiteSlotRepo) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM slots WHERE id = ?`, id)
	s, err := scanSlot(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("slot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning slot: %w", err)
	}
	return &s, nil
}

// List returns the catalog in position order.
func (r *SQLiteSlotRepo) List(ctx context.Context) ([]domain.Slot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+slotColumns+` FROM slots ORDER BY position, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}
	return slots, nil
}

func (r *SQLiteSlotRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting slot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("slot: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteSlotRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slots`); err != nil {
		return fmt.Errorf("clearing slots: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (domain.Slot, error) {
	var s domain.Slot
	var createdAt string
	err := row.Scan(
		&s.ID,
		&s.Day,
		&s.Time,
		&s.Trainer,
		&s.MinLevel,
		&s.MaxLevel,
		&s.Capacity,
		&s.Position,
		&createdAt,
	)
	if err != nil {
		return domain.Slot{}, err
	}
	s.CreatedAt = parseStoredTime(createdAt)
	return s, nil
}
