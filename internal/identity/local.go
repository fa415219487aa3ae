package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/closetquest/closetquest/internal/models"
)

// ticketTTL is the validity window of issued session tickets. It matches the
// 7-day cookie expiry used by the session store.
const ticketTTL = 7 * 24 * time.Hour

// Repository defines the persistence operations required by the built-in
// identity backend.
type Repository interface {
	// EmailTaken returns true if an account with the given email exists.
	EmailTaken(ctx context.Context, email string) (bool, error)
	// CreateUser creates a new account record.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail fetches the account with the given email.
	// Returns sql.ErrNoRows if no such account exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpsertCustomIdentity records the secondary identity for a user,
	// refreshing its last-seen timestamp when it already exists.
	UpsertCustomIdentity(ctx context.Context, customID, userID string) error
	// GetUserData reads the given keys from a user's data record.
	GetUserData(ctx context.Context, userID string, keys []string) (map[string]string, error)
	// UpsertUserData writes the given key-value pairs to a user's data record.
	UpsertUserData(ctx context.Context, userID string, data map[string]string) error
}

// Local is the built-in identity backend. It offers the same operations as
// the external service, backed by the application database, and issues
// HS256-signed session tickets.
type Local struct {
	repo   Repository
	secret []byte
}

// NewLocal constructs a Local backend over the given repository. secret
// signs and verifies session tickets.
func NewLocal(repo Repository, secret []byte) *Local {
	return &Local{repo: repo, secret: secret}
}

// ticketClaims are the claims carried by an issued session ticket.
type ticketClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

func (l *Local) issueTicket(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ticketClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ticketTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})
	return token.SignedString(l.secret)
}

// parseTicket verifies the ticket and returns the user id it was issued for.
func (l *Local) parseTicket(ticket string) (string, error) {
	claims := &ticketClaims{}
	token, err := jwt.ParseWithClaims(ticket, claims, func(t *jwt.Token) (interface{}, error) {
		return l.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", errors.New("invalid ticket")
	}
	return claims.UserID, nil
}

// Register creates a new account with a bcrypt-hashed password.
func (l *Local) Register(ctx context.Context, name, email, password string) error {
	taken, err := l.repo.EmailTaken(ctx, email)
	if err != nil {
		return &Error{Code: 500, Message: "account lookup failed"}
	}
	if taken {
		return &Error{
			Code:    409,
			Message: "account already exists",
			Details: map[string]string{"email": "already registered"},
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return &Error{Code: 500, Message: "password hashing failed"}
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := l.repo.CreateUser(ctx, user); err != nil {
		return &Error{Code: 500, Message: "account creation failed"}
	}
	return nil
}

// LoginWithEmail verifies the credentials and issues a session ticket.
func (l *Local) LoginWithEmail(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := l.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, &Error{Code: 401, Message: "invalid email or password"}
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, &Error{Code: 401, Message: "invalid email or password"}
	}

	ticket, err := l.issueTicket(user.ID)
	if err != nil {
		return nil, &Error{Code: 500, Message: "ticket issuance failed"}
	}
	return &LoginResult{Token: ticket, UserID: user.ID}, nil
}

// LoginWithCustomID registers or refreshes the secondary identity. The custom
// id is "{userID}_{timestamp}"; the prefix before the last underscore links it
// back to the primary account.
func (l *Local) LoginWithCustomID(ctx context.Context, customID string) (*LoginResult, error) {
	userID := customID
	if i := strings.LastIndex(customID, "_"); i > 0 {
		userID = customID[:i]
	}

	if err := l.repo.UpsertCustomIdentity(ctx, customID, userID); err != nil {
		return nil, &Error{Code: 500, Message: "custom identity registration failed"}
	}

	ticket, err := l.issueTicket(userID)
	if err != nil {
		return nil, &Error{Code: 500, Message: "ticket issuance failed"}
	}
	return &LoginResult{Token: ticket, UserID: userID}, nil
}

// GetUserData reads the given keys for the user the ticket was issued to.
func (l *Local) GetUserData(ctx context.Context, token string, keys []string) (map[string]string, error) {
	userID, err := l.parseTicket(token)
	if err != nil {
		return nil, &Error{Code: 401, Message: "invalid session ticket"}
	}
	data, err := l.repo.GetUserData(ctx, userID, keys)
	if err != nil {
		return nil, &Error{Code: 500, Message: "user data read failed"}
	}
	return data, nil
}

// UpdateUserData writes the given pairs for the user the ticket was issued to.
func (l *Local) UpdateUserData(ctx context.Context, token string, data map[string]string) error {
	userID, err := l.parseTicket(token)
	if err != nil {
		return &Error{Code: 401, Message: "invalid session ticket"}
	}
	if err := l.repo.UpsertUserData(ctx, userID, data); err != nil {
		return &Error{Code: 500, Message: "user data write failed"}
	}
	return nil
}
