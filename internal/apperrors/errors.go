package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindNone              Kind = ""
	KindNetworkFailure    Kind = "network_failure"
	KindMalformedResponse Kind = "malformed_response"
	KindNotFound          Kind = "not_found"
	KindUnknown           Kind = "unknown"
)

// ErrNotFound represents an error when a requested resource is not found upstream.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewShowNotFoundError creates a specific error for an unknown show identifier.
func NewShowNotFoundError(showID int) *ErrNotFound {
	return &ErrNotFound{
		Resource: "show",
		ID:       showID,
	}
}

// ErrNetworkFailure is returned when an upstream request cannot complete:
// transport errors, timeouts, or a non-success HTTP status.
type ErrNetworkFailure struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

// Error implements the error interface.
func (e *ErrNetworkFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream request to %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("upstream request to %s failed: %v", e.URL, e.Err)
}

// Unwrap exposes the transport error.
func (e *ErrNetworkFailure) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrNetworkFailure) Is(target error) bool {
	_, ok := target.(*ErrNetworkFailure)
	return ok
}

// ErrMalformedResponse is returned when an upstream payload does not have the expected shape.
type ErrMalformedResponse struct {
	Resource string
	Reason   string
	Err      error
}

// Error implements the error interface.
func (e *ErrMalformedResponse) Error() string {
	msg := fmt.Sprintf("malformed %s response", e.Resource)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the decoding error, if any.
func (e *ErrMalformedResponse) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedResponse) Is(target error) bool {
	_, ok := target.(*ErrMalformedResponse)
	return ok
}

// NewMalformedResponseError creates a new ErrMalformedResponse.
func NewMalformedResponseError(resource, reason string, err error) *ErrMalformedResponse {
	return &ErrMalformedResponse{
		Resource: resource,
		Reason:   reason,
		Err:      err,
	}
}

// KindOf classifies err. Wrapped errors are unwrapped; nil yields KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, &ErrNotFound{}):
		return KindNotFound
	case errors.Is(err, &ErrMalformedResponse{}):
		return KindMalformedResponse
	case errors.Is(err, &ErrNetworkFailure{}):
		return KindNetworkFailure
	default:
		return KindUnknown
	}
}
