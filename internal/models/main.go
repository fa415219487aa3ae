// Package models defines the core data structures for sessions, stages,
// and per-user progress flags.
package models

import "fmt"

// Session represents an authenticated user session.
type Session struct {
	// Token is the opaque session ticket issued by the identity service.
	Token string
	// UserID is the stable identifier of the authenticated user.
	UserID string
	// CustomID is the secondary, anonymous-linkable identity minted at login
	// time as "{UserID}_{unixSeconds}".
	CustomID string
}

// Stage is one unit of the guided decluttering flow. Stages are ordered and
// unlock sequentially.
type Stage struct {
	// ID is the ordinal position of the stage, starting at 1.
	ID int `json:"id"`
	// Name is the display label of the stage.
	Name string `json:"name"`
	// Unlocked is derived per user from the progress record; it is never
	// stored statically.
	Unlocked bool `json:"unlocked"`
}

// User represents an account held by the built-in identity backend.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Name is the display name chosen by the user.
	Name string
	// Email is the login email of the user.
	Email string
	// PasswordHash is the hashed password of the user.
	PasswordHash []byte
}

// OnboardingKey is the progress-record key holding the one-time onboarding flag.
const OnboardingKey = "hasCompletedOnboarding"

// FlagTrue is the string encoding of a set progress flag at the storage layer.
// Anything else, including an absent key, reads as false.
const FlagTrue = "true"

// StageCompleteKey returns the progress-record key for a stage's completion flag.
func StageCompleteKey(stageID int) string {
	return fmt.Sprintf("stage%d_complete", stageID)
}

// DefaultStages returns the static ordered stage list. The Unlocked field is
// zero here; callers overlay it per user from the progress record.
func DefaultStages() []Stage {
	names := []string{
		"Open the Closet",
		"Snap a Before Photo",
		"Empty the Racks",
		"Sort by Category",
		"The Keep Pile",
		"The Farewell Pile",
		"Measure the Rack",
		"Count the Hangers",
		"Fold and Stack",
		"Seasonal Swap",
		"Accessory Corner",
		"Shoe Lineup",
		"Snap an After Photo",
		"Closet Mastery",
	}
	stages := make([]Stage, len(names))
	for i, name := range names {
		stages[i] = Stage{ID: i + 1, Name: name}
	}
	return stages
}
