package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
)

// maxRosterUpload bounds the bulk-load workbook.
const maxRosterUpload = 10 << 20

type RosterHandler interface {
	Template(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type rosterHandlerImpl struct {
	rosterService roster.RosterService
}

func NewRosterHandler(rosterService roster.RosterService) RosterHandler {
	return &rosterHandlerImpl{rosterService: rosterService}
}

func (h *rosterHandlerImpl) Template(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}

	file, err := h.rosterService.Template(r.Context(), employerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Content)
}

// Import reads the workbook from the multipart field "file".
func (h *rosterHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(w, r, "employerID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRosterUpload)
	if err := r.ParseMultipartForm(maxRosterUpload); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Field 'file' is required", nil)
		return
	}
	defer file.Close()

	result, err := h.rosterService.Import(r.Context(), employerID, file)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Roster imported", result)
}
