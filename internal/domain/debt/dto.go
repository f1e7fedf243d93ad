package debt

import (
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== LOAN DTOs ==========

type CreateLoanRequest struct {
	EmployeeID          string          `json:"-"`
	Principal           decimal.Decimal `json:"principal"`
	InstallmentCount    int             `json:"installment_count"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
	IssuedOn            *string         `json:"issued_on,omitempty"`
	Reason              *string         `json:"reason,omitempty"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !r.Principal.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "principal", Message: "principal must be greater than zero"})
	}
	if r.InstallmentCount < 1 || r.InstallmentCount > 120 {
		errs = append(errs, validator.ValidationError{Field: "installment_count", Message: "installment_count must be between 1 and 120"})
	}
	if r.MonthlyInterestRate.IsNegative() || r.MonthlyInterestRate.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{Field: "monthly_interest_rate", Message: "monthly_interest_rate must be between 0 and 100"})
	}
	if r.IssuedOn != nil {
		if _, ok := validator.IsValidDate(*r.IssuedOn); !ok {
			errs = append(errs, validator.ValidationError{Field: "issued_on", Message: "issued_on must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoanPaymentRequest struct {
	LoanID string          `json:"-"`
	Amount decimal.Decimal `json:"amount"`
	PaidOn *string         `json:"paid_on,omitempty"`
}

func (r *LoanPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if r.PaidOn != nil {
		if _, ok := validator.IsValidDate(*r.PaidOn); !ok {
			errs = append(errs, validator.ValidationError{Field: "paid_on", Message: "paid_on must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoanResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        *string         `json:"employee_name,omitempty"`
	Principal           decimal.Decimal `json:"principal"`
	Remaining           decimal.Decimal `json:"remaining"`
	Installment         decimal.Decimal `json:"installment"`
	InstallmentCount    int             `json:"installment_count"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
	IssuedOn            string          `json:"issued_on"`
	EndsOn              *string         `json:"ends_on,omitempty"`
	Reason              *string         `json:"reason,omitempty"`
	Active              bool            `json:"active"`
}

func ToLoanResponse(l Loan) LoanResponse {
	resp := LoanResponse{
		ID:                  l.ID,
		EmployeeID:          l.EmployeeID,
		EmployeeName:        l.EmployeeName,
		Principal:           l.Principal,
		Remaining:           l.Remaining,
		Installment:         l.Installment,
		InstallmentCount:    l.InstallmentCount,
		MonthlyInterestRate: l.MonthlyInterestRate,
		IssuedOn:            l.IssuedOn.Format("2006-01-02"),
		Reason:              l.Reason,
		Active:              l.Active,
	}
	if l.EndsOn != nil {
		s := l.EndsOn.Format("2006-01-02")
		resp.EndsOn = &s
	}
	return resp
}

// ========== ADVANCE DTOs ==========

type CreateAdvanceRequest struct {
	EmployeeID  string          `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	TargetMonth int             `json:"target_month"`
	TargetYear  int             `json:"target_year"`
	IssuedOn    *string         `json:"issued_on,omitempty"`
	Reason      *string         `json:"reason,omitempty"`
}

func (r *CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if !validator.IsValidPeriod(r.TargetMonth, r.TargetYear) {
		errs = append(errs, validator.ValidationError{Field: "target_month", Message: "target period must be a month between 1 and 12 of a year between 2000 and 2100"})
	}
	if r.IssuedOn != nil {
		if _, ok := validator.IsValidDate(*r.IssuedOn); !ok {
			errs = append(errs, validator.ValidationError{Field: "issued_on", Message: "issued_on must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	IssuedOn     string          `json:"issued_on"`
	TargetMonth  int             `json:"target_month"`
	TargetYear   int             `json:"target_year"`
	Reason       *string         `json:"reason,omitempty"`
	Applied      bool            `json:"applied"`
	AppliedAt    *time.Time      `json:"applied_at,omitempty"`
	AppliedRunID *string         `json:"applied_run_id,omitempty"`
}

func ToAdvanceResponse(a Advance) AdvanceResponse {
	return AdvanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		Amount:       a.Amount,
		IssuedOn:     a.IssuedOn.Format("2006-01-02"),
		TargetMonth:  a.TargetMonth,
		TargetYear:   a.TargetYear,
		Reason:       a.Reason,
		Applied:      a.Applied,
		AppliedAt:    a.AppliedAt,
		AppliedRunID: a.AppliedRunID,
	}
}

// ========== SUMMARY DTOs ==========

type EmployeeDebtSummary struct {
	EmployeeID            string          `json:"employee_id"`
	ActiveLoans           int             `json:"active_loans"`
	PendingAdvances       int             `json:"pending_advances"`
	LoansRemaining        decimal.Decimal `json:"loans_remaining"`
	AdvancesPending       decimal.Decimal `json:"advances_pending"`
	MonthlyInstallments   decimal.Decimal `json:"monthly_installments"`
	AdvancesCurrentPeriod decimal.Decimal `json:"advances_current_period"`
}

type EmployerDebtSummary struct {
	EmployerID      string            `json:"employer_id"`
	Loans           []LoanResponse    `json:"loans"`
	Advances        []AdvanceResponse `json:"advances"`
	LoansRemaining  decimal.Decimal   `json:"loans_remaining"`
	AdvancesPending decimal.Decimal   `json:"advances_pending"`
	TotalDebt       decimal.Decimal   `json:"total_debt"`
}

type PaymentCapacityRequest struct {
	EmployeeID          string          `json:"-"`
	Principal           decimal.Decimal `json:"principal"`
	InstallmentCount    int             `json:"installment_count"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
}

type PaymentCapacityResponse struct {
	CanBorrow      bool            `json:"can_borrow"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	CurrentDebts   decimal.Decimal `json:"current_debts"`
	NewInstallment decimal.Decimal `json:"new_installment"`
	TotalDebts     decimal.Decimal `json:"total_debts"`
	Limit          decimal.Decimal `json:"limit"`
	PercentageUsed decimal.Decimal `json:"percentage_used"`
}
