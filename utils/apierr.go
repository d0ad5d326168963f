package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidIdentifier = errors.New("invalid course id")
	ErrNotFound          = errors.New("course not found")
)

// APIError carries the HTTP status and machine-readable code a failure maps
// to at the handler boundary.
type APIError struct {
	Status int
	Code   string
	Err    error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

func NewAPIError(status int, code string, err error) *APIError {
	return &APIError{Status: status, Code: code, Err: err}
}

// AsAPIError classifies err. Anything not already an APIError or one of the
// sentinels is treated as a failed store operation.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, ErrInvalidIdentifier):
		return NewAPIError(http.StatusBadRequest, "invalid_id", err)
	case errors.Is(err, ErrNotFound):
		return NewAPIError(http.StatusNotFound, "not_found", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewAPIError(http.StatusGatewayTimeout, "store_timeout", err)
	default:
		return NewAPIError(http.StatusInternalServerError, "store_error", err)
	}
}

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope is the JSON shape of every error response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func Envelope(code, message string) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorBody{Message: message, Code: code}}
}
