package http

import (
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
)

type EmployerHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	RegimeSummary(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

type employerHandlerImpl struct {
	employerService employer.EmployerService
	payrollService  payroll.PayrollService
}

func NewEmployerHandler(employerService employer.EmployerService, payrollService payroll.PayrollService) EmployerHandler {
	return &employerHandlerImpl{
		employerService: employerService,
		payrollService:  payrollService,
	}
}

func (h *employerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employer.CreateEmployerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employerService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employer created successfully", result)
}

func (h *employerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.employerService.List(r.Context(), queryBool(r, "active"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

func (h *employerHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}

	result, err := h.employerService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *employerHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	var req employer.UpdateEmployerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.employerService.Update(r.Context(), id, req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employerService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employer updated successfully", result)
}

// Delete deactivates the employer; its history stays queryable.
func (h *employerHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	if err := h.employerService.Deactivate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *employerHandlerImpl) RegimeSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}

	result, err := h.payrollService.RegimeSummary(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *employerHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}

	result, err := h.payrollService.GetSettings(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *employerHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	var req payroll.UpdateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployerID = id

	result, err := h.payrollService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payroll settings updated successfully", result)
}
