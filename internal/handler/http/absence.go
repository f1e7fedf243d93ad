package http

import (
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
)

type AbsenceHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	RegisterRange(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Excuse(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	MonthlySummary(w http.ResponseWriter, r *http.Request)
	YearlyStats(w http.ResponseWriter, r *http.Request)
}

type absenceHandlerImpl struct {
	absenceService absence.AbsenceService
}

func NewAbsenceHandler(absenceService absence.AbsenceService) AbsenceHandler {
	return &absenceHandlerImpl{absenceService: absenceService}
}

func (h *absenceHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	var req absence.RegisterAbsenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.absenceService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Absence registered successfully", result)
}

// RegisterRange stores one record per weekday of a vacation or leave.
func (h *absenceHandlerImpl) RegisterRange(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	var req absence.RegisterRangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.absenceService.RegisterRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Absences registered successfully", results)
}

// ListByEmployee requires ?month=&year=.
func (h *absenceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month")
	if !ok {
		return
	}
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}

	results, err := h.absenceService.ListByEmployee(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

func (h *absenceHandlerImpl) Excuse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "absenceID")
	if !ok {
		return
	}
	var req absence.ExcuseAbsenceRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.absenceService.Excuse(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Absence excused", result)
}

func (h *absenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "absenceID")
	if !ok {
		return
	}
	if err := h.absenceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *absenceHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month")
	if !ok {
		return
	}
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}

	result, err := h.absenceService.MonthlySummary(r.Context(), employerID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *absenceHandlerImpl) YearlyStats(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}

	result, err := h.absenceService.YearlyStats(r.Context(), employerID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
