package session

import "errors"

// ErrUnknownShape is returned when a successful login response matches
// neither the admin-wrapped nor the generic shape. The backend has been
// observed returning both; anything else is rejected instead of being
// silently defaulted into an identity.
var ErrUnknownShape = errors.New("unrecognized login response shape")

const (
	defaultLoginMessage    = "login failed"
	defaultRegisterMessage = "registration failed"
)

// AuthenticationError reports a non-success status from the login endpoint.
// Message carries the server-supplied message when one was present.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// RegistrationError reports a non-success status from the register endpoint.
type RegistrationError struct {
	StatusCode int
	Message    string
}

func (e *RegistrationError) Error() string {
	return e.Message
}
