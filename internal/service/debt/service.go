package debt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// CapacityLimit is the share of base salary that monthly debt service may use.
var CapacityLimit = decimal.RequireFromString("0.30")

var hundred = decimal.NewFromInt(100)

type DebtServiceImpl struct {
	transactor   database.Transactor
	loanRepo     debt.LoanRepository
	advanceRepo  debt.AdvanceRepository
	employeeRepo employee.EmployeeRepository
	employerRepo employer.EmployerRepository
}

func NewDebtService(
	transactor database.Transactor,
	loanRepo debt.LoanRepository,
	advanceRepo debt.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
	employerRepo employer.EmployerRepository,
) debt.DebtService {
	return &DebtServiceImpl{
		transactor:   transactor,
		loanRepo:     loanRepo,
		advanceRepo:  advanceRepo,
		employeeRepo: employeeRepo,
		employerRepo: employerRepo,
	}
}

// Installment is the fixed monthly payment of a loan. A zero rate splits the
// principal evenly; otherwise the annuity formula applies with rate in
// percent per month.
func Installment(principal decimal.Decimal, count int, monthlyRatePct decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(count))
	if monthlyRatePct.IsZero() {
		return principal.DivRound(n, 2)
	}

	r := monthlyRatePct.Div(hundred)
	growth := decimal.NewFromInt(1).Add(r).Pow(n)
	return principal.Mul(r).Mul(growth).DivRound(growth.Sub(decimal.NewFromInt(1)), 2)
}

func parseDateOr(s *string, fallback time.Time) time.Time {
	if s != nil && *s != "" {
		if t, err := time.Parse("2006-01-02", *s); err == nil {
			return t
		}
	}
	return fallback
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ========== LOANS ==========

func (s *DebtServiceImpl) CreateLoan(ctx context.Context, req debt.CreateLoanRequest) (debt.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return debt.LoanResponse{}, err
	}

	capacity, err := s.CheckPaymentCapacity(ctx, debt.PaymentCapacityRequest{
		EmployeeID:          req.EmployeeID,
		Principal:           req.Principal,
		InstallmentCount:    req.InstallmentCount,
		MonthlyInterestRate: req.MonthlyInterestRate,
	})
	if err != nil {
		return debt.LoanResponse{}, err
	}
	if !capacity.CanBorrow {
		return debt.LoanResponse{}, debt.ErrPaymentCapacityExceeded
	}

	issuedOn := parseDateOr(req.IssuedOn, today())
	endsOn := issuedOn.AddDate(0, req.InstallmentCount, 0)

	created, err := s.loanRepo.Create(ctx, debt.Loan{
		EmployeeID:          req.EmployeeID,
		Principal:           req.Principal,
		Remaining:           req.Principal,
		Installment:         capacity.NewInstallment,
		InstallmentCount:    req.InstallmentCount,
		MonthlyInterestRate: req.MonthlyInterestRate,
		IssuedOn:            issuedOn,
		EndsOn:              &endsOn,
		Reason:              req.Reason,
		Active:              true,
	})
	if err != nil {
		return debt.LoanResponse{}, err
	}

	slog.Info("loan created", "loan_id", created.ID, "employee_id", created.EmployeeID, "installment", created.Installment.String())
	return debt.ToLoanResponse(created), nil
}

func (s *DebtServiceImpl) ListLoans(ctx context.Context, employeeID string, activeOnly bool) ([]debt.LoanResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.ListByEmployee(ctx, employeeID, activeOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]debt.LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, debt.ToLoanResponse(l))
	}
	return resp, nil
}

// RecordLoanPayment applies a manual payment. A payment covering the balance
// settles and closes the loan; only the part that was owed is recorded.
func (s *DebtServiceImpl) RecordLoanPayment(ctx context.Context, req debt.LoanPaymentRequest) (debt.LoanResponse, error) {
	if err := req.Validate(); err != nil {
		return debt.LoanResponse{}, err
	}

	paidOn := parseDateOr(req.PaidOn, today())

	var updated debt.Loan
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		loan, err := s.loanRepo.GetByID(ctx, req.LoanID)
		if err != nil {
			return err
		}
		if !loan.Active {
			return debt.ErrLoanInactive
		}

		amount := req.Amount
		remaining := loan.Remaining.Sub(amount)
		active := true
		var endsOn *time.Time
		if !remaining.IsPositive() {
			amount = loan.Remaining
			remaining = decimal.Zero
			active = false
			endsOn = &paidOn
		}

		if _, err := s.loanRepo.CreatePayment(ctx, debt.LoanPayment{LoanID: loan.ID, Amount: amount, PaidOn: paidOn}); err != nil {
			return err
		}
		if err := s.loanRepo.UpdateBalance(ctx, loan.ID, remaining, active, endsOn); err != nil {
			return err
		}

		updated, err = s.loanRepo.GetByID(ctx, loan.ID)
		return err
	})
	if err != nil {
		return debt.LoanResponse{}, err
	}
	return debt.ToLoanResponse(updated), nil
}

func (s *DebtServiceImpl) CancelLoan(ctx context.Context, id string) (debt.LoanResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return debt.LoanResponse{}, err
	}
	if !loan.Active {
		return debt.LoanResponse{}, debt.ErrLoanInactive
	}

	closedOn := today()
	if err := s.loanRepo.UpdateBalance(ctx, id, decimal.Zero, false, &closedOn); err != nil {
		return debt.LoanResponse{}, err
	}

	loan, err = s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return debt.LoanResponse{}, err
	}
	slog.Info("loan cancelled", "loan_id", id)
	return debt.ToLoanResponse(loan), nil
}

// ========== ADVANCES ==========

func (s *DebtServiceImpl) CreateAdvance(ctx context.Context, req debt.CreateAdvanceRequest) (debt.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return debt.AdvanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return debt.AdvanceResponse{}, err
	}

	issuedOn := parseDateOr(req.IssuedOn, today())
	candidate := debt.Advance{TargetMonth: req.TargetMonth, TargetYear: req.TargetYear}
	if candidate.TargetsBefore(int(issuedOn.Month()), issuedOn.Year()) {
		return debt.AdvanceResponse{}, debt.ErrAdvancePastPeriod
	}

	created, err := s.advanceRepo.Create(ctx, debt.Advance{
		EmployeeID:  req.EmployeeID,
		Amount:      req.Amount,
		IssuedOn:    issuedOn,
		TargetMonth: req.TargetMonth,
		TargetYear:  req.TargetYear,
		Reason:      req.Reason,
	})
	if err != nil {
		return debt.AdvanceResponse{}, err
	}
	return debt.ToAdvanceResponse(created), nil
}

func (s *DebtServiceImpl) ListAdvances(ctx context.Context, employeeID string, pendingOnly bool) ([]debt.AdvanceResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	advances, err := s.advanceRepo.ListByEmployee(ctx, employeeID, pendingOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]debt.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		resp = append(resp, debt.ToAdvanceResponse(a))
	}
	return resp, nil
}

// CancelAdvance marks the advance applied without deducting it from any run.
func (s *DebtServiceImpl) CancelAdvance(ctx context.Context, id string) (debt.AdvanceResponse, error) {
	a, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return debt.AdvanceResponse{}, err
	}
	if a.Applied {
		return debt.AdvanceResponse{}, debt.ErrAdvanceAlreadyApplied
	}

	if err := s.advanceRepo.MarkApplied(ctx, id, nil, time.Now().UTC()); err != nil {
		return debt.AdvanceResponse{}, err
	}

	a, err = s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return debt.AdvanceResponse{}, err
	}
	slog.Info("advance cancelled", "advance_id", id)
	return debt.ToAdvanceResponse(a), nil
}

// ========== SUMMARIES ==========

func (s *DebtServiceImpl) EmployeeSummary(ctx context.Context, employeeID string) (debt.EmployeeDebtSummary, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return debt.EmployeeDebtSummary{}, err
	}

	loans, err := s.loanRepo.ListByEmployee(ctx, employeeID, true)
	if err != nil {
		return debt.EmployeeDebtSummary{}, fmt.Errorf("failed to list loans: %w", err)
	}
	advances, err := s.advanceRepo.ListByEmployee(ctx, employeeID, true)
	if err != nil {
		return debt.EmployeeDebtSummary{}, fmt.Errorf("failed to list advances: %w", err)
	}

	now := time.Now().UTC()
	summary := debt.EmployeeDebtSummary{
		EmployeeID:            employeeID,
		ActiveLoans:           len(loans),
		PendingAdvances:       len(advances),
		LoansRemaining:        decimal.Zero,
		AdvancesPending:       decimal.Zero,
		MonthlyInstallments:   decimal.Zero,
		AdvancesCurrentPeriod: decimal.Zero,
	}
	for _, l := range loans {
		summary.LoansRemaining = summary.LoansRemaining.Add(l.Remaining)
		summary.MonthlyInstallments = summary.MonthlyInstallments.Add(l.Installment)
	}
	for _, a := range advances {
		summary.AdvancesPending = summary.AdvancesPending.Add(a.Amount)
		if a.Targets(int(now.Month()), now.Year()) {
			summary.AdvancesCurrentPeriod = summary.AdvancesCurrentPeriod.Add(a.Amount)
		}
	}
	return summary, nil
}

func (s *DebtServiceImpl) EmployerSummary(ctx context.Context, employerID string) (debt.EmployerDebtSummary, error) {
	if _, err := s.employerRepo.GetByID(ctx, employerID); err != nil {
		return debt.EmployerDebtSummary{}, err
	}

	loans, err := s.loanRepo.ListActiveByEmployer(ctx, employerID)
	if err != nil {
		return debt.EmployerDebtSummary{}, fmt.Errorf("failed to list loans: %w", err)
	}
	advances, err := s.advanceRepo.ListPendingByEmployer(ctx, employerID)
	if err != nil {
		return debt.EmployerDebtSummary{}, fmt.Errorf("failed to list advances: %w", err)
	}

	summary := debt.EmployerDebtSummary{
		EmployerID:      employerID,
		Loans:           make([]debt.LoanResponse, 0, len(loans)),
		Advances:        make([]debt.AdvanceResponse, 0, len(advances)),
		LoansRemaining:  decimal.Zero,
		AdvancesPending: decimal.Zero,
	}
	for _, l := range loans {
		summary.Loans = append(summary.Loans, debt.ToLoanResponse(l))
		summary.LoansRemaining = summary.LoansRemaining.Add(l.Remaining)
	}
	for _, a := range advances {
		summary.Advances = append(summary.Advances, debt.ToAdvanceResponse(a))
		summary.AdvancesPending = summary.AdvancesPending.Add(a.Amount)
	}
	summary.TotalDebt = summary.LoansRemaining.Add(summary.AdvancesPending)
	return summary, nil
}

// CheckPaymentCapacity adds the new installment to the employee's current
// monthly debt service (active installments plus advances due this period)
// and compares it with CapacityLimit of the base salary.
func (s *DebtServiceImpl) CheckPaymentCapacity(ctx context.Context, req debt.PaymentCapacityRequest) (debt.PaymentCapacityResponse, error) {
	if req.InstallmentCount < 1 {
		req.InstallmentCount = 12
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return debt.PaymentCapacityResponse{}, err
	}

	summary, err := s.EmployeeSummary(ctx, req.EmployeeID)
	if err != nil {
		return debt.PaymentCapacityResponse{}, err
	}

	current := summary.MonthlyInstallments.Add(summary.AdvancesCurrentPeriod)
	installment := Installment(req.Principal, req.InstallmentCount, req.MonthlyInterestRate)
	total := current.Add(installment)
	limit := emp.BaseSalary.Mul(CapacityLimit).Round(2)

	resp := debt.PaymentCapacityResponse{
		CanBorrow:      total.LessThanOrEqual(limit),
		BaseSalary:     emp.BaseSalary,
		CurrentDebts:   current,
		NewInstallment: installment,
		TotalDebts:     total,
		Limit:          limit,
		PercentageUsed: decimal.Zero,
	}
	if emp.BaseSalary.IsPositive() {
		resp.PercentageUsed = total.Mul(hundred).DivRound(emp.BaseSalary, 2)
	}
	return resp, nil
}
