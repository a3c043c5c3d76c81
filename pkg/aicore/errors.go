package aicore

import (
	"errors"
	"fmt"
)

// AuthError indicates the token exchange was rejected or returned a
// malformed response. The prior lease, if any, remains installed.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token request failed: %d %s", e.Status, e.Body)
}

// TransportError indicates a network failure, timeout, or non-2xx
// response from the chat-completion endpoint.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion request failed: %v", e.Err)
	}
	return fmt.Sprintf("completion request failed: %d %s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates a 2xx completion response that is structurally
// unusable: no choices, or empty message content.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed completion response: %s", e.Reason)
}

// Retryable reports whether the retry policy should attempt err again.
// Auth, transport, and protocol errors are all retryable; anything else
// surfaces immediately.
func Retryable(err error) bool {
	var authErr *AuthError
	var transportErr *TransportError
	var protocolErr *ProtocolError

	return errors.As(err, &authErr) ||
		errors.As(err, &transportErr) ||
		errors.As(err, &protocolErr)
}
