package debt

import "context"

type DebtService interface {
	// Loans
	CreateLoan(ctx context.Context, req CreateLoanRequest) (LoanResponse, error)
	ListLoans(ctx context.Context, employeeID string, activeOnly bool) ([]LoanResponse, error)
	RecordLoanPayment(ctx context.Context, req LoanPaymentRequest) (LoanResponse, error)
	CancelLoan(ctx context.Context, id string) (LoanResponse, error)

	// Advances
	CreateAdvance(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	ListAdvances(ctx context.Context, employeeID string, pendingOnly bool) ([]AdvanceResponse, error)
	CancelAdvance(ctx context.Context, id string) (AdvanceResponse, error)

	// Summaries
	EmployeeSummary(ctx context.Context, employeeID string) (EmployeeDebtSummary, error)
	EmployerSummary(ctx context.Context, employerID string) (EmployerDebtSummary, error)
	CheckPaymentCapacity(ctx context.Context, req PaymentCapacityRequest) (PaymentCapacityResponse, error)
}
