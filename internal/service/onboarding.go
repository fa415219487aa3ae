package service

import (
	"context"

	"github.com/closetquest/closetquest/internal/identity"
	"github.com/closetquest/closetquest/internal/models"
)

// Onboarding routes a freshly authenticated user to either the first-run
// narrative sequence or directly to the home hub, based on a one-time flag
// in the user's progress record.
type Onboarding struct {
	client identity.Client
}

// NewOnboarding constructs an Onboarding gate over the identity client.
func NewOnboarding(client identity.Client) *Onboarding {
	return &Onboarding{client: client}
}

// IsFirstLogin reads the onboarding flag. A failed read, an absent key, or
// any value other than the literal "true" all count as a first login:
// ambiguous state routes the user through onboarding rather than risking
// skipping it.
func (o *Onboarding) IsFirstLogin(ctx context.Context, token string) bool {
	data, err := o.client.GetUserData(ctx, token, []string{models.OnboardingKey})
	if err != nil {
		return true
	}
	return data[models.OnboardingKey] != models.FlagTrue
}

// MarkComplete sets the onboarding flag. Idempotent. A write failure is
// returned to the caller: losing the flag means the user sees onboarding
// again on the next login.
func (o *Onboarding) MarkComplete(ctx context.Context, token string) error {
	return o.client.UpdateUserData(ctx, token, map[string]string{
		models.OnboardingKey: models.FlagTrue,
	})
}
