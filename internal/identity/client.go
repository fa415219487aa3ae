// Package identity defines the identity-service collaborator: the operations
// the application needs for registration, login, and per-user key-value data,
// plus the two implementations shipped with the server (HTTP and built-in).
package identity

import (
	"context"
	"fmt"
)

// LoginResult is the outcome of a successful login call.
type LoginResult struct {
	// Token is the session ticket proving authentication for subsequent calls.
	Token string
	// UserID is the stable identifier of the account that logged in.
	UserID string
}

// Client defines the identity-service operations used by the application.
// Every call takes the session ticket explicitly where one is required;
// implementations must not hold per-user state between calls.
type Client interface {
	// Register creates a new account. The service may reject the request
	// with its own validation rules even if client-side checks passed.
	Register(ctx context.Context, name, email, password string) error
	// LoginWithEmail exchanges email/password credentials for a session.
	LoginWithEmail(ctx context.Context, email, password string) (*LoginResult, error)
	// LoginWithCustomID registers or logs in the anonymous-linkable secondary
	// identity with the given custom id.
	LoginWithCustomID(ctx context.Context, customID string) (*LoginResult, error)
	// GetUserData reads the given keys from the authenticated user's data
	// record. Absent keys are omitted from the result.
	GetUserData(ctx context.Context, token string, keys []string) (map[string]string, error)
	// UpdateUserData writes the given key-value pairs to the authenticated
	// user's data record.
	UpdateUserData(ctx context.Context, token string, data map[string]string) error
}

// Error is a rejection reported by the identity service.
type Error struct {
	// Code is the service's numeric error code.
	Code int
	// Message is the service-provided description.
	Message string
	// Details optionally maps field names to field-level problems.
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("identity service error %d: %s", e.Code, e.Message)
}
