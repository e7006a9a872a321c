package verify

import "errors"

var (
	// ErrMissingEndpoint is returned when no validate-email endpoint is configured
	ErrMissingEndpoint = errors.New("validate-email endpoint is required")
	// ErrRequestFailed is returned when the validate-email request cannot be completed
	ErrRequestFailed = errors.New("validate-email request failed")
	// ErrUnexpectedStatus is returned when the validate-email endpoint returns a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected validate-email response status")
	// ErrValidationInFlight is returned when a validation for the user is already running
	ErrValidationInFlight = errors.New("validation already in flight for user")
)
