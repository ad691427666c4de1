package model

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// UserProfile is the single therapist profile kept on the device.
type UserProfile struct {
	ID    uuid.UUID `json:"id,omitempty"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	// ProfileImage holds the object key of the normalized photo, or nil.
	ProfileImage *string `json:"profileImage"`
}

// Complete reports whether the profile satisfies the minimum for authentication.
func (p UserProfile) Complete() bool {
	return strings.TrimSpace(p.Name) != ""
}

// ProfileStore persists the user profile.
type ProfileStore interface {
	Profile(ctx context.Context) (UserProfile, error)
	SaveProfile(ctx context.Context, profile UserProfile) error
}

// AuthStore persists the authenticated flag and owns the full device reset.
type AuthStore interface {
	Authenticated(ctx context.Context) (bool, error)
	SetAuthenticated(ctx context.Context) error
	ClearAuthentication(ctx context.Context) error
	ClearAll(ctx context.Context) error
}
