package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrEmailRequired is returned when a validation request carries no email
	ErrEmailRequired = errors.New("email is required")
	// ErrCredentialNotConfigured is returned when no upstream credential is configured
	ErrCredentialNotConfigured = errors.New("credential not configured")
	// ErrInvalidUserID is returned when the id path parameter is not an integer
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrNameRequired is returned when a create request carries an empty name
	ErrNameRequired = errors.New("name must not be empty")
	// ErrEmailMissingAt is returned when a create request email has no @
	ErrEmailMissingAt = errors.New("email must contain an @")
	// ErrAgeNotPositive is returned when a create request age is not positive
	ErrAgeNotPositive = errors.New("age must be greater than 0")
	// ErrRateLimited is returned when the validate-email endpoint sheds load
	ErrRateLimited = errors.New("too many validation requests")
)
