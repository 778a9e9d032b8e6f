package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Veraticus/spice-budget/internal/common"
	"github.com/Veraticus/spice-budget/internal/ledger"
	"github.com/Veraticus/spice-budget/internal/model"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// errBadRequest marks malformed query parameters and bodies.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errBadRequest}, args...)...)
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, common.ErrNotFound)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(r).Error("failed to encode response", "error", err, "status", status)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, ErrorResponse{Error: message})
}

// handleError maps domain errors to status codes.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger(r)

	switch {
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidState),
		errors.Is(err, errBadRequest):
		log.Warn("validation failed", "error", err)
		writeError(w, r, http.StatusBadRequest, err.Error())

	case errors.Is(err, common.ErrNotFound):
		log.Warn("resource not found", "error", err)
		writeError(w, r, http.StatusNotFound, err.Error())

	case errors.Is(err, ledger.ErrPersist):
		log.Error("persistence failed", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "change applied but could not be saved")

	default:
		log.Error("unexpected error", "error", err, "type", fmt.Sprintf("%T", err))
		writeError(w, r, http.StatusInternalServerError, "an unexpected error occurred")
	}
}

// decodeBody reads a JSON body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

type loggerKey struct{}

func logger(r *http.Request) *slog.Logger {
	if l, ok := r.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
