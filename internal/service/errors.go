// Package service provides the business logic for credentials, onboarding,
// and stage progression, delegating persistence to the identity service.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrStageLocked is returned when a locked stage is selected.
	ErrStageLocked = errors.New("stage is locked")
	// ErrUnknownStage is returned for stage ids outside the stage list.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrNoSession is returned when an operation requiring a session is
	// attempted without one.
	ErrNoSession = errors.New("no session")
)

// ValidationError reports malformed input caught before any network call.
type ValidationError struct {
	// Fields maps each offending field name to the reason it was rejected.
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// RegistrationError reports a registration rejected by the identity service.
type RegistrationError struct {
	// Message is the service-provided description.
	Message string
	// Details optionally maps field names to field-level problems.
	Details map[string]string
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return "registration failed: " + e.Message
}

// LoginError reports a failed login attempt: bad credentials, a service or
// network error, or a success response missing the session ticket.
type LoginError struct {
	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *LoginError) Error() string {
	return "login failed: " + e.Message
}
