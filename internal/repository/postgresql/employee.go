package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, employer_id, first_name, last_name, dni, base_salary, hire_date, birth_date,
	address, phone, email, pension_scheme, fund_code, pay_cadence, food_deduction,
	bank_name, bank_account, active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployerID, &e.FirstName, &e.LastName, &e.DNI, &e.BaseSalary, &e.HireDate, &e.BirthDate,
		&e.Address, &e.Phone, &e.Email, &e.PensionScheme, &e.FundCode, &e.PayCadence, &e.FoodDeduction,
		&e.BankName, &e.BankAccount, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return found, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = repository.NewID()
	}

	query := `
		INSERT INTO employees (
			id, employer_id, first_name, last_name, dni, base_salary, hire_date, birth_date,
			address, phone, email, pension_scheme, fund_code, pay_cadence, food_deduction,
			bank_name, bank_account, active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.EmployerID, newEmployee.FirstName, newEmployee.LastName, newEmployee.DNI,
		newEmployee.BaseSalary, newEmployee.HireDate, newEmployee.BirthDate,
		newEmployee.Address, newEmployee.Phone, newEmployee.Email,
		newEmployee.PensionScheme, newEmployee.FundCode, newEmployee.PayCadence, newEmployee.FoodDeduction,
		newEmployee.BankName, newEmployee.BankAccount, newEmployee.Active,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_employee_dni") {
			return employee.Employee{}, employee.ErrDNIExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// ExistsByDNI implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByDNI(ctx context.Context, employerID string, dni string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE employer_id = $1 AND dni = $2)`, employerID, dni).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	updates := repository.EmployeeUpdates(req)
	if len(updates) == 0 {
		return nil // No updates provided
	}

	q := GetQuerier(ctx, r.db)
	sql, args := updateStatement("employees", updates, id)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	return nil
}

// Deactivate implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeAlreadyInactive
	}
	return nil
}

// ListByEmployerID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByEmployerID(ctx context.Context, employerID string, activeOnly bool) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employer_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := q.Query(ctx, query, employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}
