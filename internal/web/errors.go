package web

// errors.go provides unified error responses for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls s.fail(w, r, err), which picks the status with statusFor
//  3. respondError maps the error via core.MapError
//  4. The technical error is logged with the request ID for correlation
//  5. The user message is written as JSON

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/afamplan/internal/cascade"
	"github.com/JonMunkholm/afamplan/internal/core"
	"github.com/JonMunkholm/afamplan/internal/plan"
	"github.com/JonMunkholm/afamplan/internal/reference"
)

var (
	errNotFound         = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

// ErrorResponse is the JSON body of every error response. Code is stable
// and machine-readable; Message and Action are for people.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reference.ErrNotLoaded), errors.Is(err, core.ErrExportBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, reference.ErrFetch),
		errors.Is(err, reference.ErrEmpty),
		errors.Is(err, reference.ErrMalformed):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidRequest), errors.Is(err, cascade.ErrUnknownLevel):
		return http.StatusBadRequest
	case errors.Is(err, plan.ErrEmptyPlan),
		errors.Is(err, plan.ErrInvalidPlan),
		errors.Is(err, plan.ErrTooManyActivities):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail responds with the status statusFor picks.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, err, statusFor(err))
}

// respondError logs the technical error and writes the mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	// Client errors echo the detail (which field, which level); server
	// errors never expose it.
	detail := userMsg.Message
	if statusCode < http.StatusInternalServerError {
		detail = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   detail,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}
