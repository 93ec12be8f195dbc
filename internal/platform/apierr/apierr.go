package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidRequest    = "invalid_request"
	CodeNotFound          = "not_found"
	CodeUnauthorized      = "unauthorized"
	CodeDecisionLogFailed = "decision_log_failed"
	CodeInternal          = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(err error) *Error { return New(http.StatusBadRequest, CodeInvalidRequest, err) }

func NotFound(err error) *Error { return New(http.StatusNotFound, CodeNotFound, err) }

// From extracts an *Error from err, falling back to a 500.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr
	}
	return New(http.StatusInternalServerError, CodeInternal, err)
}
