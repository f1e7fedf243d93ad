package http

import (
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployerID = employerID

	// Validate request
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created successfully", result)
}

// ListEmployees implements EmployeeHandler. ?active=true hides former staff.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}

	results, err := h.employeeService.ListEmployees(r.Context(), employerID, queryBool(r, "active"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), employerID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.UpdateEmployee(r.Context(), employerID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(r.Context(), employerID, id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}
