package http

import (
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
)

type ContractorHandler interface {
	CreateContractor(w http.ResponseWriter, r *http.Request)
	ListContractors(w http.ResponseWriter, r *http.Request)
	GetContractor(w http.ResponseWriter, r *http.Request)
	UpdateContractor(w http.ResponseWriter, r *http.Request)
	SetSuspension(w http.ResponseWriter, r *http.Request)
	DeleteContractor(w http.ResponseWriter, r *http.Request)
}

type contractorHandlerImpl struct {
	contractorService contractor.ContractorService
}

func NewContractorHandler(contractorService contractor.ContractorService) ContractorHandler {
	return &contractorHandlerImpl{contractorService: contractorService}
}

func (h *contractorHandlerImpl) CreateContractor(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	var req contractor.CreateContractorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployerID = employerID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.contractorService.CreateContractor(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Contractor created successfully", result)
}

func (h *contractorHandlerImpl) ListContractors(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}

	results, err := h.contractorService.ListContractors(r.Context(), employerID, queryBool(r, "active"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: len(results)})
}

func (h *contractorHandlerImpl) GetContractor(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "contractorID")
	if !ok {
		return
	}

	result, err := h.contractorService.GetContractor(r.Context(), employerID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *contractorHandlerImpl) UpdateContractor(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "contractorID")
	if !ok {
		return
	}
	var req contractor.UpdateContractorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.contractorService.UpdateContractor(r.Context(), employerID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Contractor updated successfully", result)
}

// SetSuspension toggles the fourth-category withholding suspension.
func (h *contractorHandlerImpl) SetSuspension(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "contractorID")
	if !ok {
		return
	}
	var req contractor.SetSuspendedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.contractorService.SetSuspended(r.Context(), employerID, id, req.Suspended)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *contractorHandlerImpl) DeleteContractor(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "contractorID")
	if !ok {
		return
	}

	if err := h.contractorService.DeleteContractor(r.Context(), employerID, id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.NoContent(w)
}
