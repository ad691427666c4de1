package model

import "github.com/google/uuid"

// TokenManager issues and validates session tokens bound to a profile.
type TokenManager interface {
	GenerateSessionToken(profileID uuid.UUID) (string, error)
	ParseSessionToken(token string) (uuid.UUID, error)
}
