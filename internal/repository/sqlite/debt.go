package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/shopspring/decimal"
)

// ========== LOANS ==========

type loanRepository struct {
	db *database.SQLiteDB
}

func NewLoanRepository(db *database.SQLiteDB) debt.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `l.id, l.employee_id, l.principal, l.remaining, l.installment, l.installment_count,
	l.monthly_interest_rate, l.issued_on, l.ends_on, l.reason, l.active, l.created_at, l.updated_at,
	e.first_name || ' ' || e.last_name`

func scanLoan(row rowScanner) (debt.Loan, error) {
	var l debt.Loan
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.Principal, &l.Remaining, &l.Installment, &l.InstallmentCount,
		&l.MonthlyInterestRate, &l.IssuedOn, &l.EndsOn, &l.Reason, &l.Active, &l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeName,
	)
	return l, err
}

func (r *loanRepository) query(ctx context.Context, where string, args ...any) ([]debt.Loan, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT `+loanColumns+` FROM loans l JOIN employees e ON e.id = l.employee_id WHERE `+where+` ORDER BY l.issued_on DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []debt.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (r *loanRepository) Create(ctx context.Context, newLoan debt.Loan) (debt.Loan, error) {
	q := GetQuerier(ctx, r.db)

	if newLoan.ID == "" {
		newLoan.ID = repository.NewID()
	}
	ts := now()

	_, err := q.ExecContext(ctx, `
		INSERT INTO loans (
			id, employee_id, principal, remaining, installment, installment_count,
			monthly_interest_rate, issued_on, ends_on, reason, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		newLoan.ID, newLoan.EmployeeID, newLoan.Principal, newLoan.Remaining, newLoan.Installment, newLoan.InstallmentCount,
		newLoan.MonthlyInterestRate, newLoan.IssuedOn.UTC(), newLoan.EndsOn, newLoan.Reason, newLoan.Active, ts, ts,
	)
	if err != nil {
		return debt.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}
	return r.GetByID(ctx, newLoan.ID)
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (debt.Loan, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLoan(q.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans l JOIN employees e ON e.id = l.employee_id WHERE l.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return debt.Loan{}, debt.ErrLoanNotFound
		}
		return debt.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

func (r *loanRepository) ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]debt.Loan, error) {
	if activeOnly {
		return r.query(ctx, `l.employee_id = ? AND l.active = 1`, employeeID)
	}
	return r.query(ctx, `l.employee_id = ?`, employeeID)
}

func (r *loanRepository) ListActiveByEmployer(ctx context.Context, employerID string) ([]debt.Loan, error) {
	return r.query(ctx, `e.employer_id = ? AND l.active = 1`, employerID)
}

func (r *loanRepository) UpdateBalance(ctx context.Context, id string, remaining decimal.Decimal, active bool, endsOn *time.Time) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `
		UPDATE loans SET remaining = ?, active = ?, ends_on = COALESCE(?, ends_on), updated_at = ?
		WHERE id = ?
	`, remaining, active, endsOn, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update loan balance: %w", err)
	}
	return expectAffected(res, debt.ErrLoanNotFound)
}

func (r *loanRepository) CreatePayment(ctx context.Context, payment debt.LoanPayment) (debt.LoanPayment, error) {
	q := GetQuerier(ctx, r.db)

	if payment.ID == "" {
		payment.ID = repository.NewID()
	}
	payment.CreatedAt = now()
	payment.PaidOn = payment.PaidOn.UTC()

	_, err := q.ExecContext(ctx, `INSERT INTO loan_payments (id, loan_id, amount, paid_on, created_at) VALUES (?, ?, ?, ?, ?)`,
		payment.ID, payment.LoanID, payment.Amount, payment.PaidOn, payment.CreatedAt)
	if err != nil {
		return debt.LoanPayment{}, fmt.Errorf("failed to record loan payment: %w", err)
	}
	return payment, nil
}

func (r *loanRepository) ListPayments(ctx context.Context, loanID string) ([]debt.LoanPayment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT id, loan_id, amount, paid_on, created_at FROM loan_payments WHERE loan_id = ? ORDER BY paid_on, created_at`, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan payments: %w", err)
	}
	defer rows.Close()

	var payments []debt.LoanPayment
	for rows.Next() {
		var p debt.LoanPayment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.Amount, &p.PaidOn, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// CloseSettled compares balances in Go since amounts are stored as text.
func (r *loanRepository) CloseSettled(ctx context.Context, on time.Time) (int64, error) {
	active, err := r.query(ctx, `l.active = 1`)
	if err != nil {
		return 0, err
	}

	q := GetQuerier(ctx, r.db)
	var closed int64
	for _, l := range active {
		if l.Remaining.IsPositive() {
			continue
		}
		if _, err := q.ExecContext(ctx, `UPDATE loans SET active = 0, ends_on = ?, updated_at = ? WHERE id = ?`, on.UTC(), now(), l.ID); err != nil {
			return closed, fmt.Errorf("failed to close loan %s: %w", l.ID, err)
		}
		closed++
	}
	return closed, nil
}

// ========== ADVANCES ==========

type advanceRepository struct {
	db *database.SQLiteDB
}

func NewAdvanceRepository(db *database.SQLiteDB) debt.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `a.id, a.employee_id, a.amount, a.issued_on, a.target_month, a.target_year, a.reason,
	a.applied, a.applied_at, a.applied_run_id, a.created_at, e.first_name || ' ' || e.last_name`

func scanAdvance(row rowScanner) (debt.Advance, error) {
	var a debt.Advance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Amount, &a.IssuedOn, &a.TargetMonth, &a.TargetYear, &a.Reason,
		&a.Applied, &a.AppliedAt, &a.AppliedRunID, &a.CreatedAt, &a.EmployeeName,
	)
	return a, err
}

func (r *advanceRepository) query(ctx context.Context, where string, args ...any) ([]debt.Advance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT `+advanceColumns+` FROM advances a JOIN employees e ON e.id = a.employee_id WHERE `+where+
		` ORDER BY a.target_year, a.target_month, a.issued_on`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advances: %w", err)
	}
	defer rows.Close()

	var advances []debt.Advance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

func (r *advanceRepository) Create(ctx context.Context, newAdvance debt.Advance) (debt.Advance, error) {
	q := GetQuerier(ctx, r.db)

	if newAdvance.ID == "" {
		newAdvance.ID = repository.NewID()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO advances (id, employee_id, amount, issued_on, target_month, target_year, reason, applied, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
	`, newAdvance.ID, newAdvance.EmployeeID, newAdvance.Amount, newAdvance.IssuedOn.UTC(),
		newAdvance.TargetMonth, newAdvance.TargetYear, newAdvance.Reason, now())
	if err != nil {
		return debt.Advance{}, fmt.Errorf("failed to create advance: %w", err)
	}
	return r.GetByID(ctx, newAdvance.ID)
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (debt.Advance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAdvance(q.QueryRowContext(ctx, `SELECT `+advanceColumns+` FROM advances a JOIN employees e ON e.id = a.employee_id WHERE a.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return debt.Advance{}, debt.ErrAdvanceNotFound
		}
		return debt.Advance{}, fmt.Errorf("failed to get advance: %w", err)
	}
	return a, nil
}

func (r *advanceRepository) ListByEmployee(ctx context.Context, employeeID string, pendingOnly bool) ([]debt.Advance, error) {
	if pendingOnly {
		return r.query(ctx, `a.employee_id = ? AND a.applied = 0`, employeeID)
	}
	return r.query(ctx, `a.employee_id = ?`, employeeID)
}

func (r *advanceRepository) ListPendingByEmployer(ctx context.Context, employerID string) ([]debt.Advance, error) {
	return r.query(ctx, `e.employer_id = ? AND a.applied = 0`, employerID)
}

func (r *advanceRepository) MarkApplied(ctx context.Context, id string, runID *string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `
		UPDATE advances SET applied = 1, applied_at = ?, applied_run_id = ?
		WHERE id = ? AND applied = 0
	`, at.UTC(), runID, id)
	if err != nil {
		return fmt.Errorf("failed to apply advance: %w", err)
	}
	return expectAffected(res, debt.ErrAdvanceAlreadyApplied)
}

func (r *advanceRepository) ReleaseByRun(ctx context.Context, runID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `UPDATE advances SET applied = 0, applied_at = NULL, applied_run_id = NULL WHERE applied_run_id = ?`, runID)
	if err != nil {
		return 0, fmt.Errorf("failed to release advances: %w", err)
	}
	return res.RowsAffected()
}

func (r *advanceRepository) ListStale(ctx context.Context, month, year int) ([]debt.Advance, error) {
	return r.query(ctx, `a.applied = 0 AND (a.target_year * 12 + a.target_month) < ?`, year*12+month)
}
