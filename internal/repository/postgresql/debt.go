package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) debt.LoanRepository {
	return &loanRepositoryImpl{db: db}
}

// ========== LOANS ==========

const loanColumns = `l.id, l.employee_id, l.principal, l.remaining, l.installment, l.installment_count,
	l.monthly_interest_rate, l.issued_on, l.ends_on, l.reason, l.active, l.created_at, l.updated_at,
	e.first_name || ' ' || e.last_name`

func scanLoan(row pgx.Row) (debt.Loan, error) {
	var l debt.Loan
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.Principal, &l.Remaining, &l.Installment, &l.InstallmentCount,
		&l.MonthlyInterestRate, &l.IssuedOn, &l.EndsOn, &l.Reason, &l.Active, &l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeName,
	)
	return l, err
}

func (r *loanRepositoryImpl) queryLoans(ctx context.Context, where string, args ...interface{}) ([]debt.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM loans l JOIN employees e ON e.id = l.employee_id WHERE ` + where + ` ORDER BY l.issued_on DESC`
	rows, err := q.Query(ctx, query, args...)
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

func (r *loanRepositoryImpl) Create(ctx context.Context, newLoan debt.Loan) (debt.Loan, error) {
	q := GetQuerier(ctx, r.db)

	if newLoan.ID == "" {
		newLoan.ID = repository.NewID()
	}

	query := `
		INSERT INTO loans (
			id, employee_id, principal, remaining, installment, installment_count,
			monthly_interest_rate, issued_on, ends_on, reason, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := q.Exec(ctx, query,
		newLoan.ID, newLoan.EmployeeID, newLoan.Principal, newLoan.Remaining, newLoan.Installment, newLoan.InstallmentCount,
		newLoan.MonthlyInterestRate, newLoan.IssuedOn, newLoan.EndsOn, newLoan.Reason, newLoan.Active,
	)
	if err != nil {
		return debt.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}
	return r.GetByID(ctx, newLoan.ID)
}

func (r *loanRepositoryImpl) GetByID(ctx context.Context, id string) (debt.Loan, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLoan(q.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans l JOIN employees e ON e.id = l.employee_id WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return debt.Loan{}, debt.ErrLoanNotFound
		}
		return debt.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

func (r *loanRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]debt.Loan, error) {
	if activeOnly {
		return r.queryLoans(ctx, `l.employee_id = $1 AND l.active`, employeeID)
	}
	return r.queryLoans(ctx, `l.employee_id = $1`, employeeID)
}

func (r *loanRepositoryImpl) ListActiveByEmployer(ctx context.Context, employerID string) ([]debt.Loan, error) {
	return r.queryLoans(ctx, `e.employer_id = $1 AND l.active`, employerID)
}

func (r *loanRepositoryImpl) UpdateBalance(ctx context.Context, id string, remaining decimal.Decimal, active bool, endsOn *time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loans
		SET remaining = $1, active = $2, ends_on = COALESCE($3, ends_on), updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, remaining, active, endsOn, id)
	if err != nil {
		return fmt.Errorf("failed to update loan balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return debt.ErrLoanNotFound
	}
	return nil
}

func (r *loanRepositoryImpl) CreatePayment(ctx context.Context, payment debt.LoanPayment) (debt.LoanPayment, error) {
	q := GetQuerier(ctx, r.db)

	if payment.ID == "" {
		payment.ID = repository.NewID()
	}

	var p debt.LoanPayment
	err := q.QueryRow(ctx, `
		INSERT INTO loan_payments (id, loan_id, amount, paid_on)
		VALUES ($1, $2, $3, $4)
		RETURNING id, loan_id, amount, paid_on, created_at
	`, payment.ID, payment.LoanID, payment.Amount, payment.PaidOn).Scan(&p.ID, &p.LoanID, &p.Amount, &p.PaidOn, &p.CreatedAt)
	if err != nil {
		return debt.LoanPayment{}, fmt.Errorf("failed to record loan payment: %w", err)
	}
	return p, nil
}

func (r *loanRepositoryImpl) ListPayments(ctx context.Context, loanID string) ([]debt.LoanPayment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, loan_id, amount, paid_on, created_at FROM loan_payments WHERE loan_id = $1 ORDER BY paid_on, created_at`, loanID)
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

func (r *loanRepositoryImpl) CloseSettled(ctx context.Context, on time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE loans SET active = FALSE, ends_on = $1, updated_at = NOW() WHERE active AND remaining <= 0`, on)
	if err != nil {
		return 0, fmt.Errorf("failed to close settled loans: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ========== ADVANCES ==========

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) debt.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

const advanceColumns = `a.id, a.employee_id, a.amount, a.issued_on, a.target_month, a.target_year, a.reason,
	a.applied, a.applied_at, a.applied_run_id, a.created_at, e.first_name || ' ' || e.last_name`

func scanAdvance(row pgx.Row) (debt.Advance, error) {
	var a debt.Advance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Amount, &a.IssuedOn, &a.TargetMonth, &a.TargetYear, &a.Reason,
		&a.Applied, &a.AppliedAt, &a.AppliedRunID, &a.CreatedAt, &a.EmployeeName,
	)
	return a, err
}

func (r *advanceRepositoryImpl) queryAdvances(ctx context.Context, where string, args ...interface{}) ([]debt.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM advances a JOIN employees e ON e.id = a.employee_id WHERE ` + where +
		` ORDER BY a.target_year, a.target_month, a.issued_on`
	rows, err := q.Query(ctx, query, args...)
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

func (r *advanceRepositoryImpl) Create(ctx context.Context, newAdvance debt.Advance) (debt.Advance, error) {
	q := GetQuerier(ctx, r.db)

	if newAdvance.ID == "" {
		newAdvance.ID = repository.NewID()
	}

	_, err := q.Exec(ctx, `
		INSERT INTO advances (id, employee_id, amount, issued_on, target_month, target_year, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, newAdvance.ID, newAdvance.EmployeeID, newAdvance.Amount, newAdvance.IssuedOn,
		newAdvance.TargetMonth, newAdvance.TargetYear, newAdvance.Reason)
	if err != nil {
		return debt.Advance{}, fmt.Errorf("failed to create advance: %w", err)
	}
	return r.GetByID(ctx, newAdvance.ID)
}

func (r *advanceRepositoryImpl) GetByID(ctx context.Context, id string) (debt.Advance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAdvance(q.QueryRow(ctx, `SELECT `+advanceColumns+` FROM advances a JOIN employees e ON e.id = a.employee_id WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return debt.Advance{}, debt.ErrAdvanceNotFound
		}
		return debt.Advance{}, fmt.Errorf("failed to get advance: %w", err)
	}
	return a, nil
}

func (r *advanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, pendingOnly bool) ([]debt.Advance, error) {
	if pendingOnly {
		return r.queryAdvances(ctx, `a.employee_id = $1 AND NOT a.applied`, employeeID)
	}
	return r.queryAdvances(ctx, `a.employee_id = $1`, employeeID)
}

func (r *advanceRepositoryImpl) ListPendingByEmployer(ctx context.Context, employerID string) ([]debt.Advance, error) {
	return r.queryAdvances(ctx, `e.employer_id = $1 AND NOT a.applied`, employerID)
}

func (r *advanceRepositoryImpl) MarkApplied(ctx context.Context, id string, runID *string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE advances SET applied = TRUE, applied_at = $1, applied_run_id = $2
		WHERE id = $3 AND NOT applied
	`, at, runID, id)
	if err != nil {
		return fmt.Errorf("failed to apply advance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return debt.ErrAdvanceAlreadyApplied
	}
	return nil
}

func (r *advanceRepositoryImpl) ReleaseByRun(ctx context.Context, runID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE advances SET applied = FALSE, applied_at = NULL, applied_run_id = NULL
		WHERE applied_run_id = $1
	`, runID)
	if err != nil {
		return 0, fmt.Errorf("failed to release advances: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *advanceRepositoryImpl) ListStale(ctx context.Context, month, year int) ([]debt.Advance, error) {
	return r.queryAdvances(ctx, `NOT a.applied AND (a.target_year * 12 + a.target_month) < ($1 * 12 + $2)`, year, month)
}
