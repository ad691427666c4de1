package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// TokenService issues device session tokens and resolves them back to a
// profile. A token is honoured only while the device is logged in and the
// stored profile still carries the same ID, so logout and account deletion
// invalidate every token issued before them.
type TokenService struct {
	manager  model.TokenManager
	auth     model.AuthStore
	profiles model.ProfileStore
	logger   *logger.Logger
}

func NewTokenService(manager model.TokenManager, auth model.AuthStore, profiles model.ProfileStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, auth: auth, profiles: profiles, logger: logger}
}

func (s *TokenService) Issue(ctx context.Context, profileID uuid.UUID) (string, error) {
	token, err := s.manager.GenerateSessionToken(profileID)
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	return token, nil
}

// GetProfileID validates token against the device state.
func (s *TokenService) GetProfileID(ctx context.Context, token string) (uuid.UUID, error) {
	profileID, err := s.manager.ParseSessionToken(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", model.ErrUnauthenticated, err)
	}

	authenticated, err := s.auth.Authenticated(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read auth state: %w", err)
	}
	if !authenticated {
		return uuid.Nil, fmt.Errorf("%w: device is logged out", model.ErrUnauthenticated)
	}

	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if !profile.Complete() || profile.ID != profileID {
		s.logger.Debug("TokenService: token does not match stored profile", "profile_id", profileID)
		return uuid.Nil, fmt.Errorf("%w: unknown profile", model.ErrUnauthenticated)
	}

	return profileID, nil
}
