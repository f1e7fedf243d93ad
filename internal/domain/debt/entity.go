package debt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is an internal loan repaid through fixed monthly installments.
type Loan struct {
	ID                  string
	EmployeeID          string
	Principal           decimal.Decimal
	Remaining           decimal.Decimal
	Installment         decimal.Decimal
	InstallmentCount    int
	MonthlyInterestRate decimal.Decimal // percent per month
	IssuedOn            time.Time
	EndsOn              *time.Time
	Reason              *string
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Joined fields
	EmployeeName *string
}

type LoanPayment struct {
	ID        string
	LoanID    string
	Amount    decimal.Decimal
	PaidOn    time.Time
	CreatedAt time.Time
}

// Advance is a salary advance deducted once, in its target period.
// Applied only ever moves from false to true.
type Advance struct {
	ID           string
	EmployeeID   string
	Amount       decimal.Decimal
	IssuedOn     time.Time
	TargetMonth  int
	TargetYear   int
	Reason       *string
	Applied      bool
	AppliedAt    *time.Time
	AppliedRunID *string
	CreatedAt    time.Time

	// Joined fields
	EmployeeName *string
}

// Targets reports whether the advance is due in the given period.
func (a Advance) Targets(month, year int) bool {
	return a.TargetMonth == month && a.TargetYear == year
}

// TargetsBefore reports whether the advance is due before the given period.
func (a Advance) TargetsBefore(month, year int) bool {
	return a.TargetYear < year || (a.TargetYear == year && a.TargetMonth < month)
}
