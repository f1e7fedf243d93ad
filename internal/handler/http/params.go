package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/planilla-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("Failed to decode request body", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// pathID returns a required URL parameter. IDs are UUIDv7, so anything
// else cannot name a stored row and answers 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if validator.IsEmpty(id) {
		response.BadRequest(w, name+" is required", nil)
		return "", false
	}
	if !validator.IsValidUUID(id) {
		response.NotFound(w, "Resource not found")
		return "", false
	}
	return id, true
}

// queryInt parses an optional integer query parameter. A missing value
// yields 0 so the service validation reports it.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.ValidationError(w, map[string]string{name: "must be an integer"})
		return 0, false
	}
	return n, true
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

func queryDecimal(w http.ResponseWriter, r *http.Request, name string) (decimal.Decimal, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		response.ValidationError(w, map[string]string{name: "must be a number"})
		return decimal.Zero, false
	}
	return d, true
}
