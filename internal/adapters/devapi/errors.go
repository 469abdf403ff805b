package devapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/planner"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/oas"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, oas.ErrorResponse{Detail: detail})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

// writeInvalid reports a request that could not be decoded or bound.
func writeInvalid(w http.ResponseWriter, field string, err error) {
	writeJSON(w, http.StatusUnprocessableEntity, oas.ValidationDetail(map[string]any{field: err.Error()}))
}

// writeError maps backend failures to status codes. notFound names the missing resource.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var apiErr *plannerapi.Error
	var rejected *planner.RejectedError
	switch {
	case errors.As(err, &apiErr) && errors.Is(err, plannerapi.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, oas.ValidationDetail(apiErr.Details))
	case errors.As(err, &rejected):
		writeDetail(w, http.StatusBadRequest, rejected.Error())
	case errors.Is(err, planner.ErrNotFound):
		writeDetail(w, http.StatusNotFound, notFound)
	case errors.Is(err, planner.ErrConflict):
		writeDetail(w, http.StatusBadRequest, "Username or email already registered")
	default:
		s.log.Printf("devapi: %s %s [%s]: %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
