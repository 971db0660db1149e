// Package apierr defines the typed error taxonomy shared by the API
// client, the executor, and the command layer. Every failure that can
// reach the top of the process maps to exactly one category, which in
// turn fixes the envelope error code and the process exit code.
package apierr

import (
	"fmt"
	"net/http"
)

// Category groups errors by how the caller should react to them.
type Category string

const (
	CategoryUsage       Category = "usage"       // bad flags, missing confirmation
	CategoryAuth        Category = "auth"        // 401/403 surviving the single retry
	CategoryNotFound    Category = "not_found"   // resolution failure or remote 404
	CategoryConflict    Category = "conflict"    // remote 409, e.g. stale expected version
	CategoryServer      Category = "server"      // remote 5xx
	CategoryNetwork     Category = "network"     // unreachable host, transport failure
	CategoryUnsupported Category = "unsupported" // programming-contract violation
)

// Envelope error codes, stable for scripted consumers.
const (
	CodeClientUsage          = "CLIENT_USAGE"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeOrgContextMissing    = "ORG_CONTEXT_MISSING"
	CodeAuthFailed           = "AUTH_FAILED"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeServerError          = "SERVER_ERROR"
	CodeNetworkError         = "NETWORK_ERROR"
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
)

// Error is a typed client error. Status is the remote HTTP status when
// the failure came from the API, zero for purely local failures.
type Error struct {
	Category  Category
	Code      string
	Message   string
	Status    int
	Details   interface{}
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode maps the category to the fixed process exit code.
func (e *Error) ExitCode() int {
	switch e.Category {
	case CategoryAuth:
		return 3
	case CategoryNotFound:
		return 5
	case CategoryConflict:
		return 10
	case CategoryServer, CategoryNetwork:
		return 20
	default:
		return 2
	}
}

// Usagef reports a client usage error: wrong flag combination, missing
// argument, and the like. Never retryable.
func Usagef(format string, args ...interface{}) *Error {
	return &Error{
		Category: CategoryUsage,
		Code:     CodeClientUsage,
		Message:  fmt.Sprintf(format, args...),
	}
}

// ConfirmationRequired is the fixed usage error emitted when --apply is
// requested without confirmation. The message is deliberately stable so
// scripts can match on it.
func ConfirmationRequired() *Error {
	return &Error{
		Category: CategoryUsage,
		Code:     CodeConfirmationRequired,
		Message:  "confirmation required: pass --yes to apply this change",
	}
}

// OrgContextMissing is returned when no organization could be inferred
// for an items.create and none was supplied.
func OrgContextMissing() *Error {
	return &Error{
		Category: CategoryUsage,
		Code:     CodeOrgContextMissing,
		Message:  "no organization context: pass --org-id or set SORTD_ORG_ID",
	}
}

// NotFoundf reports a local resolution failure.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{
		Category: CategoryNotFound,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Unsupportedf reports a programming-contract violation, such as an
// unknown proposal operation loaded from disk.
func Unsupportedf(format string, args ...interface{}) *Error {
	return &Error{
		Category: CategoryUnsupported,
		Code:     CodeUnsupportedOperation,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Network wraps a transport-level failure. Marked retryable: the remote
// was never reached, so the caller may safely re-run the command.
func Network(err error) *Error {
	return &Error{
		Category:  CategoryNetwork,
		Code:      CodeNetworkError,
		Message:   fmt.Sprintf("request failed: %v", err),
		Retryable: true,
		Err:       err,
	}
}

// FromStatus builds a typed error from a non-2xx API response. code and
// message come from the structured error body when the server sent one.
func FromStatus(status int, code, message string, details interface{}) *Error {
	e := &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Category = CategoryAuth
		if e.Code == "" {
			e.Code = CodeAuthFailed
		}
	case status == http.StatusNotFound:
		e.Category = CategoryNotFound
		if e.Code == "" {
			e.Code = CodeNotFound
		}
	case status == http.StatusConflict:
		e.Category = CategoryConflict
		if e.Code == "" {
			e.Code = CodeConflict
		}
	case status >= 500:
		e.Category = CategoryServer
		e.Retryable = true
		if e.Code == "" {
			e.Code = CodeServerError
		}
	default:
		e.Category = CategoryUsage
		if e.Code == "" {
			e.Code = CodeClientUsage
		}
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("request failed with status %d", status)
	}
	return e
}
