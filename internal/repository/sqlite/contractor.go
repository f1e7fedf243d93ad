package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
)

type contractorRepository struct {
	db *database.SQLiteDB
}

func NewContractorRepository(db *database.SQLiteDB) contractor.ContractorRepository {
	return &contractorRepository{db: db}
}

const contractorColumns = `id, employer_id, first_name, last_name, dni, monthly_fee, start_date, end_date,
	suspended, food_deduction, bank_name, bank_account, active, created_at, updated_at`

func scanContractor(row rowScanner) (contractor.Contractor, error) {
	var c contractor.Contractor
	err := row.Scan(
		&c.ID, &c.EmployerID, &c.FirstName, &c.LastName, &c.DNI, &c.MonthlyFee, &c.StartDate, &c.EndDate,
		&c.Suspended, &c.FoodDeduction, &c.BankName, &c.BankAccount, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *contractorRepository) GetByID(ctx context.Context, id string) (contractor.Contractor, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanContractor(q.QueryRowContext(ctx, `SELECT `+contractorColumns+` FROM contractors WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contractor.Contractor{}, contractor.ErrContractorNotFound
		}
		return contractor.Contractor{}, fmt.Errorf("failed to get contractor: %w", err)
	}
	return found, nil
}

func (r *contractorRepository) Create(ctx context.Context, newContractor contractor.Contractor) (contractor.Contractor, error) {
	q := GetQuerier(ctx, r.db)

	if newContractor.ID == "" {
		newContractor.ID = repository.NewID()
	}
	ts := now()

	_, err := q.ExecContext(ctx, `
		INSERT INTO contractors (
			id, employer_id, first_name, last_name, dni, monthly_fee, start_date, end_date,
			suspended, food_deduction, bank_name, bank_account, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		newContractor.ID, newContractor.EmployerID, newContractor.FirstName, newContractor.LastName, newContractor.DNI,
		newContractor.MonthlyFee, newContractor.StartDate.UTC(), newContractor.EndDate,
		newContractor.Suspended, newContractor.FoodDeduction, newContractor.BankName, newContractor.BankAccount,
		newContractor.Active, ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err, "contractors.dni") {
			return contractor.Contractor{}, contractor.ErrDNIExists
		}
		return contractor.Contractor{}, fmt.Errorf("failed to create contractor: %w", err)
	}
	return r.GetByID(ctx, newContractor.ID)
}

func (r *contractorRepository) ExistsByDNI(ctx context.Context, employerID string, dni string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM contractors WHERE employer_id = ? AND dni = ?)`, employerID, dni).Scan(&exists)
	return exists, err
}

func (r *contractorRepository) Update(ctx context.Context, id string, req contractor.UpdateContractorRequest) error {
	updates := repository.ContractorUpdates(req)
	if len(updates) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)
	query, args := updateStatement("contractors", updates, id)

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update contractor with id %s: %w", id, err)
	}
	return expectAffected(res, contractor.ErrContractorNotFound)
}

func (r *contractorRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `UPDATE contractors SET suspended = ?, updated_at = ? WHERE id = ?`, suspended, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update suspension: %w", err)
	}
	return expectAffected(res, contractor.ErrContractorNotFound)
}

func (r *contractorRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `UPDATE contractors SET active = 0, updated_at = ? WHERE id = ? AND active = 1`, now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate contractor: %w", err)
	}
	return expectAffected(res, contractor.ErrContractorAlreadyInactive)
}

func (r *contractorRepository) ListByEmployerID(ctx context.Context, employerID string, activeOnly bool) ([]contractor.Contractor, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + contractorColumns + ` FROM contractors WHERE employer_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := q.QueryContext(ctx, query, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}
	defer rows.Close()

	var contractors []contractor.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		contractors = append(contractors, c)
	}
	return contractors, rows.Err()
}
