package http

import (
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	ExportPreview(w http.ResponseWriter, r *http.Request)
	Commit(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	DeleteRun(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	ExportRun(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// runRequest reads {period_month, period_year} for the employer in the path.
func runRequest(w http.ResponseWriter, r *http.Request) (payroll.RunPayrollRequest, bool) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return payroll.RunPayrollRequest{}, false
	}
	var req payroll.RunPayrollRequest
	if !decodeJSON(w, r, &req) {
		return payroll.RunPayrollRequest{}, false
	}
	req.EmployerID = employerID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return payroll.RunPayrollRequest{}, false
	}
	return req, true
}

// ========== RUNS ==========

func (h *payrollHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	req, ok := runRequest(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *payrollHandlerImpl) ExportPreview(w http.ResponseWriter, r *http.Request) {
	req, ok := runRequest(w, r)
	if !ok {
		return
	}

	file, err := h.payrollService.ExportPreview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Content)
}

func (h *payrollHandlerImpl) Commit(w http.ResponseWriter, r *http.Request) {
	req, ok := runRequest(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.Commit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payroll run committed", result)
}

// ListRuns accepts an optional ?year= filter.
func (h *payrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}
	var yearFilter *int
	if year != 0 {
		yearFilter = &year
	}

	results, err := h.payrollService.ListRuns(r.Context(), employerID, yearFilter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "runID")
	if !ok {
		return
	}

	result, err := h.payrollService.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "runID")
	if !ok {
		return
	}
	if err := h.payrollService.DeleteRun(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "runID")
	if !ok {
		return
	}

	result, err := h.payrollService.MarkPaid(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll run marked as paid", result)
}

// ========== DOCUMENTS ==========

func (h *payrollHandlerImpl) ExportRun(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "runID")
	if !ok {
		return
	}

	file, err := h.payrollService.ExportRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Content)
}

func (h *payrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	file, err := h.payrollService.Payslip(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Content)
}
