package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/slotter/internal/db"
	"github.com/alexanderramin/slotter/internal/domain"
)

// SQLiteRegistrationRepo implements RegistrationRepo using a SQLite database.
type SQLiteRegistrationRepo struct {
	db db.DBTX
}

func NewSQLiteRegistrationRepo(conn db.DBTX) *SQLiteRegistrationRepo {
	return &SQLiteRegistrationRepo{db: conn}
}

const registrationColumns = `id, period, choice, phone, name, level, frequency, permit_higher,
	pref1, pref2, pref3, submitted_at, note, created_at`

func (r *SQLiteRegistrationRepo) Create(ctx context.Context, reg *domain.Registrant) error {
	query := `INSERT INTO registrations (` + registrationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		reg.ID,
		reg.Period,
		reg.Choice,
		strings.TrimSpace(reg.Phone),
		strings.TrimSpace(reg.Name),
		strings.TrimSpace(reg.LevelText),
		reg.Frequency,
		boolToInt(reg.PermitHigher),
		strings.TrimSpace(reg.Preferences[0]),
		strings.TrimSpace(reg.Preferences[1]),
		strings.TrimSpace(reg.Preferences[2]),
		strings.TrimSpace(reg.SubmittedAt),
		reg.Note,
		formatStoredTime(reg.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting registration: %w", err)
	}
	return nil
}

// ListByChoice returns the dataset for one weekly occurrence in the order
// rows were written.
func (r *SQLiteRegistrationRepo) ListByChoice(ctx context.Context, period string, choice int) ([]domain.Registrant, error) {
	return r.list(ctx, `WHERE period = ? AND choice = ?`, period, choice)
}

func (r *SQLiteRegistrationRepo) ListByIdentity(ctx context.Context, period string, choice int, phone string) ([]domain.Registrant, error) {
	return r.list(ctx, `WHERE period = ? AND choice = ? AND phone = ?`, period, choice, strings.TrimSpace(phone))
}

// DeleteByIdentity removes every row of phone from the dataset and returns
// how many were removed.
func (r *SQLiteRegistrationRepo) DeleteByIdentity(ctx context.Context, period string, choice int, phone string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE period = ? AND choice = ? AND phone = ?`,
		period, choice, strings.TrimSpace(phone))
	if err != nil {
		return 0, fmt.Errorf("deleting registrations for identity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted registrations: %w", err)
	}
	return n, nil
}

func (r *SQLiteRegistrationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting registration: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("registration: %w", ErrNotFound)
	}
	return nil
}

// CountByChoice returns the number of rows per dataset of period. Datasets
// without rows are absent from the map.
func (r *SQLiteRegistrationRepo) CountByChoice(ctx context.Context, period string) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT choice, COUNT(*) FROM registrations WHERE period = ? GROUP BY choice`, period)
	if err != nil {
		return nil, fmt.Errorf("counting registrations: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var choice, n int
		if err := rows.Scan(&choice, &n); err != nil {
			return nil, fmt.Errorf("scanning registration count: %w", err)
		}
		counts[choice] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registration counts: %w", err)
	}
	return counts, nil
}

func (r *SQLiteRegistrationRepo) list(ctx context.Context, where string, args ...any) ([]domain.Registrant, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ` + where + ` ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	defer rows.Close()

	var out []domain.Registrant
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning registration: %w", err)
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registrations: %w", err)
	}
	return out, nil
}

func scanRegistration(row rowScanner) (domain.Registrant, error) {
	var reg domain.Registrant
	var permit int
	var createdAt string
	err := row.Scan(
		&reg.ID,
		&reg.Period,
		&reg.Choice,
		&reg.Phone,
		&reg.Name,
		&reg.LevelText,
		&reg.Frequency,
		&permit,
		&reg.Preferences[0],
		&reg.Preferences[1],
		&reg.Preferences[2],
		&reg.SubmittedAt,
		&reg.Note,
		&createdAt,
	)
	if err != nil {
		return domain.Registrant{}, err
	}
	reg.PermitHigher = intToBool(permit)
	reg.CreatedAt = parseStoredTime(createdAt)
	return reg, nil
}
