package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/jackc/pgx/v5"
)

type employerRepositoryImpl struct {
	db *database.DB
}

func NewEmployerRepository(db *database.DB) employer.EmployerRepository {
	return &employerRepositoryImpl{db: db}
}

const employerColumns = `id, name, ruc, regime, address, phone, email, active, created_at, updated_at`

func scanEmployer(row pgx.Row) (employer.Employer, error) {
	var e employer.Employer
	err := row.Scan(&e.ID, &e.Name, &e.RUC, &e.Regime, &e.Address, &e.Phone, &e.Email, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// GetByID implements employer.EmployerRepository.
func (r *employerRepositoryImpl) GetByID(ctx context.Context, id string) (employer.Employer, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployer(q.QueryRow(ctx, `SELECT `+employerColumns+` FROM employers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employer.Employer{}, employer.ErrEmployerNotFound
		}
		return employer.Employer{}, fmt.Errorf("failed to get employer: %w", err)
	}
	return e, nil
}

// List implements employer.EmployerRepository.
func (r *employerRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]employer.Employer, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employerColumns + ` FROM employers`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query)
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

// Create implements employer.EmployerRepository.
func (r *employerRepositoryImpl) Create(ctx context.Context, newEmployer employer.Employer) (employer.Employer, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployer.ID == "" {
		newEmployer.ID = repository.NewID()
	}

	query := `
		INSERT INTO employers (id, name, ruc, regime, address, phone, email, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + employerColumns

	created, err := scanEmployer(q.QueryRow(ctx, query,
		newEmployer.ID, newEmployer.Name, newEmployer.RUC, newEmployer.Regime,
		newEmployer.Address, newEmployer.Phone, newEmployer.Email, newEmployer.Active,
	))
	if err != nil {
		if strings.Contains(err.Error(), "employers_ruc_key") {
			return employer.Employer{}, employer.ErrRUCExists
		}
		return employer.Employer{}, fmt.Errorf("failed to create employer: %w", err)
	}
	return created, nil
}

// Update implements employer.EmployerRepository.
func (r *employerRepositoryImpl) Update(ctx context.Context, id string, req employer.UpdateEmployerRequest) error {
	updates := repository.EmployerUpdates(req)
	if len(updates) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)
	sql, args := updateStatement("employers", updates, id)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employer.ErrEmployerNotFound
		}
		return fmt.Errorf("failed to update employer with id %s: %w", id, err)
	}
	return nil
}

// Deactivate implements employer.EmployerRepository.
func (r *employerRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employers SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employer.ErrEmployerNotFound
	}
	return nil
}

// HasCommittedRuns implements employer.EmployerRepository.
func (r *employerRepositoryImpl) HasCommittedRuns(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payroll_runs WHERE employer_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll runs: %w", err)
	}
	return exists, nil
}
