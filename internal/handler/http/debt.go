package http

import (
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
)

type DebtHandler interface {
	CreateLoan(w http.ResponseWriter, r *http.Request)
	ListLoans(w http.ResponseWriter, r *http.Request)
	RecordLoanPayment(w http.ResponseWriter, r *http.Request)
	CancelLoan(w http.ResponseWriter, r *http.Request)
	CreateAdvance(w http.ResponseWriter, r *http.Request)
	ListAdvances(w http.ResponseWriter, r *http.Request)
	CancelAdvance(w http.ResponseWriter, r *http.Request)
	EmployeeSummary(w http.ResponseWriter, r *http.Request)
	EmployerSummary(w http.ResponseWriter, r *http.Request)
	PaymentCapacity(w http.ResponseWriter, r *http.Request)
}

type debtHandlerImpl struct {
	debtService debt.DebtService
}

func NewDebtHandler(debtService debt.DebtService) DebtHandler {
	return &debtHandlerImpl{debtService: debtService}
}

// ========== LOANS ==========

func (h *debtHandlerImpl) CreateLoan(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	var req debt.CreateLoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.debtService.CreateLoan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Loan created successfully", result)
}

func (h *debtHandlerImpl) ListLoans(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}

	results, err := h.debtService.ListLoans(r.Context(), employeeID, queryBool(r, "active"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

func (h *debtHandlerImpl) RecordLoanPayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanID")
	if !ok {
		return
	}
	var req debt.LoanPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.LoanID = loanID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.debtService.RecordLoanPayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payment recorded", result)
}

func (h *debtHandlerImpl) CancelLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanID")
	if !ok {
		return
	}

	result, err := h.debtService.CancelLoan(r.Context(), loanID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Loan cancelled", result)
}

// ========== ADVANCES ==========

func (h *debtHandlerImpl) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	var req debt.CreateAdvanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.debtService.CreateAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Advance created successfully", result)
}

func (h *debtHandlerImpl) ListAdvances(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}

	results, err := h.debtService.ListAdvances(r.Context(), employeeID, queryBool(r, "pending"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

func (h *debtHandlerImpl) CancelAdvance(w http.ResponseWriter, r *http.Request) {
	advanceID, ok := pathID(w, r, "advanceID")
	if !ok {
		return
	}

	result, err := h.debtService.CancelAdvance(r.Context(), advanceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Advance cancelled", result)
}

// ========== SUMMARIES ==========

func (h *debtHandlerImpl) EmployeeSummary(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}

	result, err := h.debtService.EmployeeSummary(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *debtHandlerImpl) EmployerSummary(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}

	result, err := h.debtService.EmployerSummary(r.Context(), employerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// PaymentCapacity takes ?principal=&installment_count=&monthly_interest_rate=.
func (h *debtHandlerImpl) PaymentCapacity(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	principal, ok := queryDecimal(w, r, "principal")
	if !ok {
		return
	}
	count, ok := queryInt(w, r, "installment_count")
	if !ok {
		return
	}
	rate, ok := queryDecimal(w, r, "monthly_interest_rate")
	if !ok {
		return
	}

	result, err := h.debtService.CheckPaymentCapacity(r.Context(), debt.PaymentCapacityRequest{
		EmployeeID:          employeeID,
		Principal:           principal,
		InstallmentCount:    count,
		MonthlyInterestRate: rate,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
