// Package envelope wraps every command outcome in the versioned JSON
// envelope and fixes the process exit code. This is the single place
// where errors are mapped to the taxonomy; nothing below the command
// layer prints to stdout or stderr.
package envelope

import (
	"errors"

	"github.com/sortdhq/sortd/internal/apierr"
	"github.com/sortdhq/sortd/internal/validate"
)

// SchemaVersion identifies the envelope format for scripted consumers.
const SchemaVersion = "sortd.v1"

// Exit codes, fixed per failure category.
const (
	ExitOK         = 0
	ExitUsage      = 2
	ExitAuth       = 3
	ExitValidation = 4
	ExitNotFound   = 5
	ExitConflict   = 10
	ExitServer     = 20
)

// Validation failures share one stable envelope code.
const codeValidationFailed = "VALIDATION_FAILED"

// Fallback code for errors nothing below mapped, e.g. cobra flag
// parsing failures.
const codeClientError = "CLIENT_ERROR"

// Meta carries request correlation data in success envelopes.
type Meta struct {
	RequestID  string `json:"request_id,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// Success is the ok:true envelope.
type Success struct {
	SchemaVersion string      `json:"schema_version"`
	OK            bool        `json:"ok"`
	Data          interface{} `json:"data"`
	Meta          Meta        `json:"meta"`
}

// ErrorBody is the structured error inside a failure envelope.
type ErrorBody struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Retryable bool        `json:"retryable"`
}

// Failure is the ok:false envelope.
type Failure struct {
	SchemaVersion string    `json:"schema_version"`
	OK            bool      `json:"ok"`
	Error         ErrorBody `json:"error"`
}

// NewSuccess wraps command data in a success envelope.
func NewSuccess(data interface{}, meta Meta) Success {
	return Success{
		SchemaVersion: SchemaVersion,
		OK:            true,
		Data:          data,
		Meta:          meta,
	}
}

// FromError maps any error to its failure envelope and exit code.
func FromError(err error) (Failure, int) {
	body, code := errorBody(err)
	return Failure{
		SchemaVersion: SchemaVersion,
		OK:            false,
		Error:         body,
	}, code
}

// ExitCode returns just the exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	_, code := FromError(err)
	return code
}

func errorBody(err error) (ErrorBody, int) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return ErrorBody{
			Code:    codeValidationFailed,
			Message: verr.Error(),
			Details: map[string]interface{}{"issues": verr.Issues},
		}, ExitValidation
	}

	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return ErrorBody{
			Code:      apiErr.Code,
			Message:   apiErr.Message,
			Details:   apiErr.Details,
			Retryable: apiErr.Retryable,
		}, apiErr.ExitCode()
	}

	return ErrorBody{
		Code:    codeClientError,
		Message: err.Error(),
	}, ExitUsage
}
