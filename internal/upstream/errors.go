package upstream

import "errors"

var (
	// ErrMissingAPIKey is returned when no provider credential is configured
	ErrMissingAPIKey = errors.New("upstream API key is required")
	// ErrRequestFailed is returned when the provider request cannot be completed
	ErrRequestFailed = errors.New("upstream request failed")
	// ErrUnexpectedStatus is returned when the provider returns a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected upstream response status")
	// ErrMalformedResponse is returned when the provider body cannot be decoded
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrProviderError is returned when the provider reports an error payload
	ErrProviderError = errors.New("upstream provider error")
)
