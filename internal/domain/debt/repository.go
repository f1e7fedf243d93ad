package debt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LoanRepository interface {
	Create(ctx context.Context, newLoan Loan) (Loan, error)
	GetByID(ctx context.Context, id string) (Loan, error)
	ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]Loan, error)
	ListActiveByEmployer(ctx context.Context, employerID string) ([]Loan, error)

	// UpdateBalance sets the remaining balance; a settled loan is closed with endsOn.
	UpdateBalance(ctx context.Context, id string, remaining decimal.Decimal, active bool, endsOn *time.Time) error
	CreatePayment(ctx context.Context, payment LoanPayment) (LoanPayment, error)
	ListPayments(ctx context.Context, loanID string) ([]LoanPayment, error)

	// CloseSettled deactivates active loans whose balance reached zero.
	CloseSettled(ctx context.Context, on time.Time) (int64, error)
}

type AdvanceRepository interface {
	Create(ctx context.Context, newAdvance Advance) (Advance, error)
	GetByID(ctx context.Context, id string) (Advance, error)
	ListByEmployee(ctx context.Context, employeeID string, pendingOnly bool) ([]Advance, error)
	ListPendingByEmployer(ctx context.Context, employerID string) ([]Advance, error)

	// MarkApplied flips applied false -> true. It returns ErrAdvanceAlreadyApplied
	// when no pending row matched, so two concurrent runs cannot both deduct it.
	MarkApplied(ctx context.Context, id string, runID *string, at time.Time) error

	// ReleaseByRun reverts advances applied by a deleted draft run.
	ReleaseByRun(ctx context.Context, runID string) (int64, error)

	// ListStale returns pending advances targeting a period before month/year.
	ListStale(ctx context.Context, month, year int) ([]Advance, error)
}
