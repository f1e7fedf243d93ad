package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
)

type employeeRepository struct {
	db *database.SQLiteDB
}

func NewEmployeeRepository(db *database.SQLiteDB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, employer_id, first_name, last_name, dni, base_salary, hire_date, birth_date,
	address, phone, email, pension_scheme, fund_code, pay_cadence, food_deduction,
	bank_name, bank_account, active, created_at, updated_at`

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.EmployerID, &e.FirstName, &e.LastName, &e.DNI, &e.BaseSalary, &e.HireDate, &e.BirthDate,
		&e.Address, &e.Phone, &e.Email, &e.PensionScheme, &e.FundCode, &e.PayCadence, &e.FoodDeduction,
		&e.BankName, &e.BankAccount, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanEmployee(q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return found, nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = repository.NewID()
	}
	ts := now()

	_, err := q.ExecContext(ctx, `
		INSERT INTO employees (
			id, employer_id, first_name, last_name, dni, base_salary, hire_date, birth_date,
			address, phone, email, pension_scheme, fund_code, pay_cadence, food_deduction,
			bank_name, bank_account, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		newEmployee.ID, newEmployee.EmployerID, newEmployee.FirstName, newEmployee.LastName, newEmployee.DNI,
		newEmployee.BaseSalary, newEmployee.HireDate.UTC(), newEmployee.BirthDate,
		newEmployee.Address, newEmployee.Phone, newEmployee.Email,
		string(newEmployee.PensionScheme), newEmployee.FundCode, string(newEmployee.PayCadence), newEmployee.FoodDeduction,
		newEmployee.BankName, newEmployee.BankAccount, newEmployee.Active, ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err, "employees.dni") {
			return employee.Employee{}, employee.ErrDNIExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return r.GetByID(ctx, newEmployee.ID)
}

func (r *employeeRepository) ExistsByDNI(ctx context.Context, employerID string, dni string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE employer_id = ? AND dni = ?)`, employerID, dni).Scan(&exists)
	return exists, err
}

func (r *employeeRepository) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	updates := repository.EmployeeUpdates(req)
	if len(updates) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)
	query, args := updateStatement("employees", updates, id)

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	return expectAffected(res, employee.ErrEmployeeNotFound)
}

func (r *employeeRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `UPDATE employees SET active = 0, updated_at = ? WHERE id = ? AND active = 1`, now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	return expectAffected(res, employee.ErrEmployeeAlreadyInactive)
}

func (r *employeeRepository) ListByEmployerID(ctx context.Context, employerID string, activeOnly bool) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employer_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := q.QueryContext(ctx, query, employerID)
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
