package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/jackc/pgx/v5"
)

type contractorRepositoryImpl struct {
	db *database.DB
}

func NewContractorRepository(db *database.DB) contractor.ContractorRepository {
	return &contractorRepositoryImpl{db: db}
}

const contractorColumns = `id, employer_id, first_name, last_name, dni, monthly_fee, start_date, end_date,
	suspended, food_deduction, bank_name, bank_account, active, created_at, updated_at`

func scanContractor(row pgx.Row) (contractor.Contractor, error) {
	var c contractor.Contractor
	err := row.Scan(
		&c.ID, &c.EmployerID, &c.FirstName, &c.LastName, &c.DNI, &c.MonthlyFee, &c.StartDate, &c.EndDate,
		&c.Suspended, &c.FoodDeduction, &c.BankName, &c.BankAccount, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *contractorRepositoryImpl) GetByID(ctx context.Context, id string) (contractor.Contractor, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanContractor(q.QueryRow(ctx, `SELECT `+contractorColumns+` FROM contractors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contractor.Contractor{}, contractor.ErrContractorNotFound
		}
		return contractor.Contractor{}, fmt.Errorf("failed to get contractor: %w", err)
	}
	return found, nil
}

func (r *contractorRepositoryImpl) Create(ctx context.Context, newContractor contractor.Contractor) (contractor.Contractor, error) {
	q := GetQuerier(ctx, r.db)

	if newContractor.ID == "" {
		newContractor.ID = repository.NewID()
	}

	query := `
		INSERT INTO contractors (
			id, employer_id, first_name, last_name, dni, monthly_fee, start_date, end_date,
			suspended, food_deduction, bank_name, bank_account, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + contractorColumns

	created, err := scanContractor(q.QueryRow(ctx, query,
		newContractor.ID, newContractor.EmployerID, newContractor.FirstName, newContractor.LastName, newContractor.DNI,
		newContractor.MonthlyFee, newContractor.StartDate, newContractor.EndDate,
		newContractor.Suspended, newContractor.FoodDeduction, newContractor.BankName, newContractor.BankAccount,
		newContractor.Active,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_contractor_dni") {
			return contractor.Contractor{}, contractor.ErrDNIExists
		}
		return contractor.Contractor{}, fmt.Errorf("failed to create contractor: %w", err)
	}
	return created, nil
}

func (r *contractorRepositoryImpl) ExistsByDNI(ctx context.Context, employerID string, dni string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contractors WHERE employer_id = $1 AND dni = $2)`, employerID, dni).Scan(&exists)
	return exists, err
}

func (r *contractorRepositoryImpl) Update(ctx context.Context, id string, req contractor.UpdateContractorRequest) error {
	updates := repository.ContractorUpdates(req)
	if len(updates) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)
	sql, args := updateStatement("contractors", updates, id)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contractor.ErrContractorNotFound
		}
		return fmt.Errorf("failed to update contractor with id %s: %w", id, err)
	}
	return nil
}

func (r *contractorRepositoryImpl) SetSuspended(ctx context.Context, id string, suspended bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE contractors SET suspended = $1, updated_at = NOW() WHERE id = $2`, suspended, id)
	if err != nil {
		return fmt.Errorf("failed to update suspension: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contractor.ErrContractorNotFound
	}
	return nil
}

func (r *contractorRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE contractors SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate contractor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contractor.ErrContractorAlreadyInactive
	}
	return nil
}

func (r *contractorRepositoryImpl) ListByEmployerID(ctx context.Context, employerID string, activeOnly bool) ([]contractor.Contractor, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + contractorColumns + ` FROM contractors WHERE employer_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := q.Query(ctx, query, employerID)
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
