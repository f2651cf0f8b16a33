// Package handler contains the HTTP layer: one handler struct per resource,
// each translating requests into service calls and service results into
// JSON.
//
// REQUEST FLOW:
//  1. chi matches the route and runs the auth middleware
//  2. The handler reads path/query parameters and decodes the body with
//     decodeBody, which accepts snake_case, camelCase and a few aliases
//  3. The service validates and persists
//  4. writeItem/writeList/writeMessage send the result, or writeError maps
//     the apperror sentinel to a status code
//
// Handlers hold no state beyond their service and logger, so one instance
// serves every request concurrently.
//
// RESPONSE HELPERS:
// Every endpoint answers with a JSON envelope carrying "success". Errors
// share one shape so clients can branch on "error" alone:
//
//	{"success": false, "error": "not_found", "message": "bd not found with id BD-9"}
//
// Validation errors add a "details" object keyed by field name.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/agency-backoffice/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`             // Machine-readable error type (e.g., "not_found")
	Message string            `json:"message"`           // Human-readable description
	Details map[string]string `json:"details,omitempty"` // Per-field messages for validation errors
}

// MessageResponse is the body of writes that return no resource.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const internalErrorMessage = "An internal error occurred"

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be set BEFORE the body is written; once Encode
// writes, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent, so all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeList sends {success, count, <key>: items}.
func writeList[T any](w http.ResponseWriter, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(items),
		key:       items,
	})
}

// writeItem sends {success, [message], <key>: item}.
func writeItem(w http.ResponseWriter, status int, key string, item any, message string) {
	body := map[string]any{
		"success": true,
		key:       item,
	}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, status, body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Success: true, Message: message})
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// The service layer returns errors wrapping apperror sentinels; errors.Is
// walks the chain to find them. Anything untyped is an internal error: it
// is logged with the request ID and answered with a generic message, never
// the raw error text.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"
		var details map[string]string

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
			details = appErr.Details
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrTooLarge):
			status = http.StatusRequestEntityTooLarge
			errorType = "payload_too_large"
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{
				Error:   errorType,
				Message: appErr.Message,
				Details: details,
			})
			return
		}
	}

	logger.Error("request failed",
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: internalErrorMessage,
	})
}
