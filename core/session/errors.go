package session

import (
	"errors"
	"fmt"
)

// ErrLoginSuperseded is returned when a login attempt resolves after a newer
// login or a logout; its result is dropped without touching the Store.
var ErrLoginSuperseded = errors.New("login attempt superseded")

// AuthenticationError reports a failed login: invalid credentials or an
// unreachable identity collaborator. Recoverable; surfaced to the user for
// retry; never mutates an existing session.
type AuthenticationError struct {
	Reason string
	Err    error
}

func NewAuthenticationError(format string, args ...interface{}) *AuthenticationError {
	return &AuthenticationError{Reason: fmt.Sprintf(format, args...)}
}

func WrapAuthenticationError(err error, reason string) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Err: err}
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// IsAuthenticationError reports whether err is (or wraps) a failed login.
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
