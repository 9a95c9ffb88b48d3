package api

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing means no stored token exists; fatal, the user must log in.
	ErrCredentialMissing = errors.New("credential missing, please log in")
	// ErrInvalidCredential means the stored token could not be decoded or
	// carries no usable subject; fatal, the user must log in again.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrIdentityNotFound means the token subject matched no directory record.
	ErrIdentityNotFound = errors.New("identity not found in user directory")
	// ErrNoReachableEndpoint means every candidate failed at transport level.
	ErrNoReachableEndpoint = errors.New("no reachable endpoint")
)

// HTTPError carries a non-success response from the last attempted candidate.
// Code is set when the server speaks the typed error-code contract; Message
// and Raw preserve the legacy free-text payload.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Raw     string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("http %d (%s): %s", e.Status, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Raw)
}

// PaymentDeclinedError surfaces the processor's verbatim decline reason.
// The same transaction attempt is never retried automatically.
type PaymentDeclinedError struct {
	Status  string
	Message string
}

func (e *PaymentDeclinedError) Error() string {
	if e.Message != "" {
		return "payment declined: " + e.Message
	}
	return "payment declined (" + e.Status + ")"
}
