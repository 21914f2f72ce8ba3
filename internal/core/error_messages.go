package core

// error_messages.go maps technical errors to user-facing messages with a
// support code.
//
// # Error Codes Reference
//
// # Reference Table (REF001-REF099)
//
//	REF001 - No data: the reference table parsed but holds no records
//	         Action: Check the reference file and reload
//	         Match: reference.ErrEmpty
//
//	REF002 - Malformed data: the reference table is not a JSON array of objects
//	         Action: Fix the reference file and reload
//	         Match: reference.ErrMalformed
//
//	REF003 - Source unavailable: the reference source could not be read
//	         Action: Please try again in a few moments
//	         Match: reference.ErrFetch, "connection refused"
//
//	REF004 - Not loaded: no reference table has been loaded yet
//	         Action: Wait for startup to finish or trigger a reload
//	         Match: reference.ErrNotLoaded
//
//	REF005 - No match: no record links the code to the profile
//	         Action: Pick another profile or choose the old code manually
//	         Match: ErrNoMatch
//
// # Plan (PLAN001-PLAN099)
//
//	PLAN001 - Empty plan: nothing to export
//	          Action: Add at least one activity before exporting
//	          Match: plan.ErrEmptyPlan
//
//	PLAN002 - Invalid plan: a field is out of range or unknown
//	          Action: Review the highlighted activities
//	          Match: plan.ErrInvalidPlan, plan.ErrTooManyActivities
//
//	PLAN003 - Activity not found
//	          Action: Refresh the plan and try again
//	          Match: plan.ErrActivityNotFound, plan.ErrIndexOutOfRange
//
// # Requests (REQ001-REQ099)
//
//	REQ001 - Invalid request: the request body or parameters are malformed
//	         Action: Check the request and try again
//	         Match: ErrInvalidRequest
//
//	REQ002 - Unknown cascade level
//	         Action: Use one of area, code, profile, oldCode, field
//	         Match: cascade.ErrUnknownLevel
//
//	REQ003 - Request timed out
//	         Action: Please try again
//	         Match: context.DeadlineExceeded, "timeout"
//
//	REQ004 - Request cancelled
//	         Action: Please try again
//	         Match: context.Canceled
//
// # Throttling (RATE001-RATE099)
//
//	RATE001 - Too many requests
//	          Action: Please wait a moment before trying again
//	          Match: "rate limit"
//
//	RATE002 - Exports busy: every export slot is taken
//	          Action: Please wait a moment and try again
//	          Match: ErrExportBusy
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Matching
//
// Sentinel errors are checked first with errors.Is, so wrapping with %w keeps
// the code. Remaining errors are matched case-insensitively on their text; the
// first matching pattern wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/afamplan/internal/cascade"
	"github.com/JonMunkholm/afamplan/internal/plan"
	"github.com/JonMunkholm/afamplan/internal/reference"
)

var (
	// ErrInvalidRequest marks malformed client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoMatch is returned when a best-field search finds no record.
	ErrNoMatch = errors.New("no matching record")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgRefEmpty = UserMessage{
		Message: "No reference data available",
		Action:  "Check the reference file and reload",
		Code:    "REF001",
	}
	msgRefMalformed = UserMessage{
		Message: "The reference data could not be read",
		Action:  "Fix the reference file and reload",
		Code:    "REF002",
	}
	msgRefUnavailable = UserMessage{
		Message: "The reference source is unavailable",
		Action:  "Please try again in a few moments",
		Code:    "REF003",
	}
	msgRefNotLoaded = UserMessage{
		Message: "Reference data is not loaded yet",
		Action:  "Wait for startup to finish or trigger a reload",
		Code:    "REF004",
	}
	msgNoMatch = UserMessage{
		Message: "No record matches the selected code and profile",
		Action:  "Pick another profile or choose the old code manually",
		Code:    "REF005",
	}
	msgPlanEmpty = UserMessage{
		Message: "The plan has no activities",
		Action:  "Add at least one activity before exporting",
		Code:    "PLAN001",
	}
	msgPlanInvalid = UserMessage{
		Message: "The plan contains invalid values",
		Action:  "Review the highlighted activities",
		Code:    "PLAN002",
	}
	msgPlanNotFound = UserMessage{
		Message: "Activity not found",
		Action:  "Refresh the plan and try again",
		Code:    "PLAN003",
	}
	msgBadRequest = UserMessage{
		Message: "The request is not valid",
		Action:  "Check the request and try again",
		Code:    "REQ001",
	}
	msgUnknownLevel = UserMessage{
		Message: "Unknown selection level",
		Action:  "Use one of area, code, profile, oldCode, field",
		Code:    "REQ002",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "REQ003",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ004",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
	msgExportBusy = UserMessage{
		Message: "The export service is busy",
		Action:  "Please wait a moment and try again",
		Code:    "RATE002",
	}
)

// errorKind pairs a sentinel with its message.
type errorKind struct {
	target error
	msg    UserMessage
}

// errorKinds is checked in order with errors.Is.
var errorKinds = []errorKind{
	{reference.ErrEmpty, msgRefEmpty},
	{reference.ErrMalformed, msgRefMalformed},
	{reference.ErrFetch, msgRefUnavailable},
	{reference.ErrNotLoaded, msgRefNotLoaded},
	{ErrNoMatch, msgNoMatch},
	{plan.ErrEmptyPlan, msgPlanEmpty},
	{plan.ErrInvalidPlan, msgPlanInvalid},
	{plan.ErrTooManyActivities, msgPlanInvalid},
	{plan.ErrActivityNotFound, msgPlanNotFound},
	{plan.ErrIndexOutOfRange, msgPlanNotFound},
	{cascade.ErrUnknownLevel, msgUnknownLevel},
	{ErrInvalidRequest, msgBadRequest},
	{ErrExportBusy, msgExportBusy},
	{context.DeadlineExceeded, msgTimeout},
	{context.Canceled, msgCancelled},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors that arrive without a sentinel, such as text
// from a remote source. More specific patterns come first.
var errorPatterns = []errorPattern{
	{"connection refused", msgRefUnavailable},
	{"no such host", msgRefUnavailable},
	{"rate limit", msgRateLimited},
	{"timeout", msgTimeout},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should check the logs for the original error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	err := fmt.Errorf("reload: %w", reference.ErrEmpty)
//	msg := MapError(err)
//	// msg.Code == "REF001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError carries a technical error together with the message shown to
// users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err and wraps it. Returns nil if err is nil.
//
//	ue := NewUserError(err)
//	slog.Error("startup failed", "error", ue.Technical)
//	fmt.Fprintln(os.Stderr, FormatUserError(ue))
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
