package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/closetquest/closetquest/internal/identity"
	"github.com/closetquest/closetquest/internal/models"
)

// namePattern is the allowed shape of a display name: 3-20 word characters.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// minPasswordLen is the minimum accepted password length.
const minPasswordLen = 6

// Gateway exchanges user-supplied credentials for a session against the
// identity service.
type Gateway struct {
	client identity.Client
	log    *zap.Logger
	// now stamps the secondary custom id; overridable in tests.
	now func() time.Time
}

// NewGateway constructs a Gateway using the provided identity client.
func NewGateway(client identity.Client, log *zap.Logger) *Gateway {
	return &Gateway{client: client, log: log, now: time.Now}
}

// validateRegistration checks the credential triple before any network call.
// The checks are advisory: the identity service remains the source of truth
// and may still reject the request.
func validateRegistration(name, email, password string) *ValidationError {
	fields := make(map[string]string)
	if name == "" {
		fields["name"] = "must not be empty"
	} else if !namePattern.MatchString(name) {
		fields["name"] = "must be 3-20 letters, digits, or underscores"
	}
	if email == "" {
		fields["email"] = "must not be empty"
	}
	if password == "" {
		fields["password"] = "must not be empty"
	} else if len(password) < minPasswordLen {
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Register validates the credentials and creates a new account. It does not
// log the new user in; callers perform an explicit Login afterwards.
// Returns *ValidationError for malformed input and *RegistrationError when
// the identity service rejects the request.
func (g *Gateway) Register(ctx context.Context, name, email, password string) error {
	if verr := validateRegistration(name, email, password); verr != nil {
		return verr
	}

	if err := g.client.Register(ctx, name, email, password); err != nil {
		if svcErr, ok := err.(*identity.Error); ok {
			return &RegistrationError{Message: svcErr.Message, Details: svcErr.Details}
		}
		return &RegistrationError{Message: err.Error()}
	}
	return nil
}

// Login exchanges the credentials for a session. A success response missing
// the session ticket is treated as a failure. After the primary login, the
// gateway links the anonymous secondary identity "{userId}_{timestamp}";
// failure there is logged and does not fail the login.
func (g *Gateway) Login(ctx context.Context, email, password string) (*models.Session, error) {
	res, err := g.client.LoginWithEmail(ctx, email, password)
	if err != nil {
		if svcErr, ok := err.(*identity.Error); ok {
			return nil, &LoginError{Message: svcErr.Message}
		}
		return nil, &LoginError{Message: err.Error()}
	}
	if res.Token == "" {
		return nil, &LoginError{Message: "missing session ticket"}
	}

	customID := fmt.Sprintf("%s_%d", res.UserID, g.now().Unix())
	if _, err := g.client.LoginWithCustomID(ctx, customID); err != nil {
		g.log.Warn("secondary identity link failed",
			zap.String("customId", customID),
			zap.Error(err),
		)
	}

	return &models.Session{Token: res.Token, UserID: res.UserID, CustomID: customID}, nil
}
