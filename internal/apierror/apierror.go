package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrTransport    ErrorCode = "TRANSPORT"
	ErrTimeout      ErrorCode = "TIMEOUT"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrBackend      ErrorCode = "BACKEND"
)

// ConnectivityMessage is shown for every transport level failure.
const ConnectivityMessage = "Cannot connect to server. Please check your internet connection and try again."

type APIError struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"status_code,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.WithField("code", code).Debug(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Validation wraps a client side validation failure. Nothing was sent.
func Validation(message string, details interface{}) APIError {
	return NewAPIError(ErrInvalidInput, message, details)
}

// FromStatus builds the error for a non-2xx response. message is the server's
// message when it sent one, otherwise the per-operation fallback.
func FromStatus(status int, message string, details interface{}) APIError {
	code := ErrBackend
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = ErrUnauthorized
	case http.StatusNotFound:
		code = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = ErrInvalidInput
	}
	e := NewAPIError(code, message, details)
	e.StatusCode = status
	return e
}

// As extracts an APIError from anywhere in err's chain.
func As(err error) (APIError, bool) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return APIError{}, false
}

// Message is the text to show a user for err: the carried message of an
// APIError, or err.Error() for anything else.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := As(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}

// IsConnectivity reports a timeout or transport failure, the errors the poller backs off on.
func IsConnectivity(err error) bool {
	return IsCode(err, ErrTransport) || IsCode(err, ErrTimeout)
}
