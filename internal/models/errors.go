package models

import (
	"errors"
	"fmt"
)

// ErrNoRecord is returned by repository drivers when the addressed record
// does not exist. Store converts it into a NotFoundError.
var ErrNoRecord = errors.New("record not found")

// ValidationError reports a missing or malformed field on a write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NotFoundError reports an operation against an id that is not live.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AuthorizationError reports a mutation attempted without an admin grant.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	if e.Reason == "" {
		return "admin authorization required"
	}
	return "admin authorization required: " + e.Reason
}

// ExternalServiceError wraps a failure of an upload, generation or identity
// collaborator.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsAuthorization(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

func IsExternalService(err error) bool {
	var target *ExternalServiceError
	return errors.As(err, &target)
}
