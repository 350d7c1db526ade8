package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/fluxfeed-be/internal/auth"
	"github.com/isdelr/fluxfeed-be/internal/policy"
	"github.com/isdelr/fluxfeed-be/internal/services"
	"github.com/isdelr/fluxfeed-be/internal/store"
	"github.com/rs/zerolog/log"
)

// GraphHandler dispatches named operations from a single endpoint. The
// caller identity (if any) was already resolved into the request context by
// the auth middleware; authorization itself happens inside the registry.
type GraphHandler struct {
	registry *policy.Registry
}

// NewGraphHandler creates a new GraphHandler.
func NewGraphHandler(registry *policy.Registry) *GraphHandler {
	return &GraphHandler{registry: registry}
}

// DispatchRequest is the inbound payload: one operation name plus its
// arguments.
type DispatchRequest struct {
	Operation string          `json:"operation"`
	Args      json.RawMessage `json:"args"`
}

// Dispatch decodes the request, runs the operation, and writes the result
// or the mapped error.
func (h *GraphHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Operation == "" {
		writeError(w, http.StatusBadRequest, "operation is required")
		return
	}

	data, err := h.registry.Dispatch(r.Context(), req.Operation, req.Args)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Str("operation", req.Operation).Msg("Operation failed")
			writeError(w, status, "internal error")
			return
		}
		log.Warn().Err(err).Str("operation", req.Operation).Msg("Operation rejected")
		writeError(w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

// statusFor maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is an internal failure whose detail stays out of the
// response.
func statusFor(err error) int {
	switch {
	case errors.Is(err, policy.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, policy.ErrUnknownOperation):
		return http.StatusBadRequest
	case errors.Is(err, policy.ErrInvalidArgs):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrEmptyPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
