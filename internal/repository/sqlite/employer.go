package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
)

func now() time.Time {
	return time.Now().UTC()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type employerRepository struct {
	db *database.SQLiteDB
}

func NewEmployerRepository(db *database.SQLiteDB) employer.EmployerRepository {
	return &employerRepository{db: db}
}

const employerColumns = `id, name, ruc, regime, address, phone, email, active, created_at, updated_at`

func scanEmployer(row rowScanner) (employer.Employer, error) {
	var e employer.Employer
	err := row.Scan(&e.ID, &e.Name, &e.RUC, &e.Regime, &e.Address, &e.Phone, &e.Email, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *employerRepository) GetByID(ctx context.Context, id string) (employer.Employer, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployer(q.QueryRowContext(ctx, `SELECT `+employerColumns+` FROM employers WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employer.Employer{}, employer.ErrEmployerNotFound
		}
		return employer.Employer{}, fmt.Errorf("failed to get employer: %w", err)
	}
	return e, nil
}

func (r *employerRepository) List(ctx context.Context, activeOnly bool) ([]employer.Employer, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employerColumns + ` FROM employers`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employers: %w", err)
	}
	defer rows.Close()

	var employers []employer.Employer
	for rows.Next() {
		e, err := scanEmployer(rows)
		if err != nil {
			return nil, err
		}
		employers = append(employers, e)
	}
	return employers, rows.Err()
}

func (r *employerRepository) Create(ctx context.Context, newEmployer employer.Employer) (employer.Employer, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployer.ID == "" {
		newEmployer.ID = repository.NewID()
	}
	ts := now()

	_, err := q.ExecContext(ctx, `
		INSERT INTO employers (id, name, ruc, regime, address, phone, email, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, newEmployer.ID, newEmployer.Name, newEmployer.RUC, string(newEmployer.Regime),
		newEmployer.Address, newEmployer.Phone, newEmployer.Email, newEmployer.Active, ts, ts)
	if err != nil {
		if isUniqueViolation(err, "employers.ruc") {
			return employer.Employer{}, employer.ErrRUCExists
		}
		return employer.Employer{}, fmt.Errorf("failed to create employer: %w", err)
	}
	return r.GetByID(ctx, newEmployer.ID)
}

func (r *employerRepository) Update(ctx context.Context, id string, req employer.UpdateEmployerRequest) error {
	updates := repository.EmployerUpdates(req)
	if len(updates) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)
	query, args := updateStatement("employers", updates, id)

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update employer with id %s: %w", id, err)
	}
	return expectAffected(res, employer.ErrEmployerNotFound)
}

func (r *employerRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `UPDATE employers SET active = 0, updated_at = ? WHERE id = ?`, now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employer: %w", err)
	}
	return expectAffected(res, employer.ErrEmployerNotFound)
}

func (r *employerRepository) HasCommittedRuns(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM payroll_runs WHERE employer_id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payroll runs: %w", err)
	}
	return exists, nil
}

// expectAffected returns notFound when the statement touched no row.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
