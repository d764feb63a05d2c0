package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/meetsync/internal/application"
)

// Error codes surfaced in the response envelope.
const (
	codeUnauthorized    = "UNAUTHORIZED"
	codeNotFound        = "NOT_FOUND"
	codeValidationError = "VALIDATION_ERROR"
	codeBadRequest      = "BAD_REQUEST"
	codeInternal        = "INTERNAL"
)

var (
	errBadRequestBody    = errors.New("request body could not be decoded")
	errInvalidScheduleID = errors.New("a schedule id is required in the path")
	errInvalidChildID    = errors.New("a child record id is required in the path")
)

// apiResponse is the envelope shared by every endpoint.
type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeData(ctx context.Context, w http.ResponseWriter, status int, data any) {
	r.writeJSON(ctx, w, status, apiResponse{Success: true, Data: data})
}

func (r responder) writeErrorCode(ctx context.Context, w http.ResponseWriter, status int, code, message string, details map[string]string) {
	r.writeJSON(ctx, w, status, apiResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message, Details: details},
	})
}

func (r responder) writeBadRequest(ctx context.Context, w http.ResponseWriter, err error) {
	message := "bad request"
	if err != nil {
		message = err.Error()
	}
	r.writeErrorCode(ctx, w, http.StatusBadRequest, codeBadRequest, message, nil)
}

// handleServiceError maps application errors onto the envelope. Existence and
// ownership failures arrive here already conflated as ErrNotFound.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeErrorCode(ctx, w, http.StatusUnauthorized, codeUnauthorized, "no caller identity was resolved", nil)
	case errors.Is(err, application.ErrNotFound):
		r.writeErrorCode(ctx, w, http.StatusNotFound, codeNotFound, "the requested resource was not found", nil)
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeErrorCode(ctx, w, http.StatusUnprocessableEntity, codeValidationError, "the request failed validation", vErr.FieldErrors)
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err)
		r.writeErrorCode(ctx, w, http.StatusInternalServerError, codeInternal, "an internal error occurred", nil)
	}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}
