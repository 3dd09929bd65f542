package errs

import (
	"fmt"
	"net/http"
)

// APIError is the wire-level error contract: a short machine code plus an
// optional human message. Internal error details never travel in it.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func New(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// WithMessage returns a copy carrying a different message.
func (e *APIError) WithMessage(message string) *APIError {
	return &APIError{Status: e.Status, Code: e.Code, Message: message}
}

var (
	ErrBadPlatform = New(http.StatusBadRequest, "BAD_PLATFORM", "")
	ErrBadRequest  = New(http.StatusBadRequest, "BAD_REQUEST", "")
	ErrBadRole     = New(http.StatusBadRequest, "BAD_ROLE", "")

	// Missing, unknown and expired tokens are deliberately the same error,
	// so the API can't be used to probe which tokens exist.
	ErrInvalidSession = New(http.StatusUnauthorized, "INVALID_SESSION", "")

	ErrRoleLocked = New(http.StatusConflict, "ROLE_LOCKED", "")
	ErrServer     = New(http.StatusInternalServerError, "SERVER_ERROR", "")
)
