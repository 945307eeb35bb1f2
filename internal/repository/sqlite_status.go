package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/slotter/internal/db"
	"github.com/alexanderramin/slotter/internal/domain"
)

// SQLiteStatusRepo stores the planning status as a JSON document keyed by
// working period.
type SQLiteStatusRepo struct {
	db db.DBTX
}

func NewSQLiteStatusRepo(conn db.DBTX) *SQLiteStatusRepo {
	return &SQLiteStatusRepo{db: conn}
}

// Load decodes the stored document. It returns ErrNotFound when period has
// no document and ErrCorruptStatus when the document does not decode. The
// result is returned as stored; callers normalize it.
func (r *SQLiteStatusRepo) Load(ctx context.Context, period string) (*domain.PlanningStatus, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM planning_status WHERE period = ?`, period).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("planning status %q: %w", period, ErrNotFound)
		}
		return nil, fmt.Errorf("reading planning status: %w", err)
	}

	var s domain.PlanningStatus
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStatus, err)
	}
	return &s, nil
}

func (r *SQLiteStatusRepo) Save(ctx context.Context, period string, s *domain.PlanningStatus) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding planning status: %w", err)
	}
	query := `INSERT INTO planning_status (period, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(period) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, period, string(doc), nowUTC()); err != nil {
		return fmt.Errorf("saving planning status: %w", err)
	}
	return nil
}
