package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// AuthState is the position of the device in the sign-in flow.
type AuthState int

const (
	StateUnauthenticated AuthState = iota
	StateCodeEntry
	StateProfileSetup
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateCodeEntry:
		return "code_entry"
	case StateProfileSetup:
		return "profile_setup"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// CodeMatcher checks a submitted access code.
type CodeMatcher interface {
	Match(code string) bool
}

// PhotoStore keeps profile photos.
type PhotoStore interface {
	StorePhoto(ctx context.Context, profileID uuid.UUID, raw []byte) (string, error)
	DeletePhoto(ctx context.Context, key string)
}

// SessionIssuer signs session tokens.
type SessionIssuer interface {
	Issue(ctx context.Context, profileID uuid.UUID) (string, error)
}

// Session is the outcome of a sign-in step.
type Session struct {
	State   AuthState
	Token   string
	Profile model.UserProfile
}

// Auth drives the access code and profile setup flow of the device.
type Auth struct {
	mu sync.Mutex

	state    AuthState
	codes    CodeMatcher
	auth     model.AuthStore
	profiles model.ProfileStore
	photos   PhotoStore
	sessions SessionIssuer
	logger   *logger.Logger
}

func NewAuth(
	codes CodeMatcher,
	auth model.AuthStore,
	profiles model.ProfileStore,
	photos PhotoStore,
	sessions SessionIssuer,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		state:    StateUnauthenticated,
		codes:    codes,
		auth:     auth,
		profiles: profiles,
		photos:   photos,
		sessions: sessions,
		logger:   logger,
	}
}

// State restores the flow position from storage when it is not known yet.
func (s *Auth) State(ctx context.Context) (AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUnauthenticated {
		if err := s.restoreLocked(ctx); err != nil {
			return StateUnauthenticated, err
		}
	}
	return s.state, nil
}

// Restore recomputes the flow position from storage.
func (s *Auth) Restore(ctx context.Context) (AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.restoreLocked(ctx); err != nil {
		return StateUnauthenticated, err
	}
	return s.state, nil
}

// SubmitCode checks the access code. A device with a stored profile signs in
// directly; otherwise the flow continues with profile setup.
func (s *Auth) SubmitCode(ctx context.Context, code string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUnauthenticated {
		if err := s.restoreLocked(ctx); err != nil {
			return Session{}, err
		}
	}

	if !s.codes.Match(code) {
		s.logger.Info("Auth service: invalid access code submitted")
		return Session{State: s.state}, model.ErrInvalidCode
	}

	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read profile: %w", err)
	}

	if !profile.Complete() {
		s.state = StateProfileSetup
		return Session{State: s.state}, nil
	}

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
		if err := s.profiles.SaveProfile(ctx, profile); err != nil {
			return Session{}, fmt.Errorf("failed to save profile: %w", err)
		}
	}

	return s.signInLocked(ctx, profile)
}

// SubmitProfile completes profile setup after a valid access code.
func (s *Auth) SubmitProfile(ctx context.Context, name, email string, photo []byte) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateProfileSetup {
		return Session{State: s.state}, model.ErrInvalidTransition
	}

	name, email, err := validateProfile(name, email)
	if err != nil {
		return Session{State: s.state}, err
	}

	profile := model.UserProfile{ID: uuid.New(), Name: name, Email: email}
	if len(photo) > 0 {
		key, err := s.photos.StorePhoto(ctx, profile.ID, photo)
		if err != nil {
			return Session{State: s.state}, err
		}
		profile.ProfileImage = &key
	}

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return Session{}, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("Auth service: profile created", "profile_id", profile.ID)
	return s.signInLocked(ctx, profile)
}

// Logout clears the signed-in flag. Profile and payments stay on the device.
func (s *Auth) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.auth.ClearAuthentication(ctx); err != nil {
		return fmt.Errorf("failed to clear authentication: %w", err)
	}

	s.state = StateCodeEntry
	s.logger.Info("Auth service: logged out")
	return nil
}

// DeleteAccount wipes every record of the device and returns to code entry.
func (s *Auth) DeleteAccount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	if err := s.auth.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear device: %w", err)
	}

	if profile.ProfileImage != nil {
		s.photos.DeletePhoto(ctx, *profile.ProfileImage)
	}

	s.state = StateCodeEntry
	s.logger.Info("Auth service: account deleted", "profile_id", profile.ID)
	return nil
}

func (s *Auth) signInLocked(ctx context.Context, profile model.UserProfile) (Session, error) {
	if err := s.auth.SetAuthenticated(ctx); err != nil {
		return Session{}, fmt.Errorf("failed to store authentication: %w", err)
	}

	token, err := s.sessions.Issue(ctx, profile.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to issue session: %w", err)
	}

	s.state = StateAuthenticated
	return Session{State: s.state, Token: token, Profile: profile}, nil
}

func (s *Auth) restoreLocked(ctx context.Context) error {
	authenticated, err := s.auth.Authenticated(ctx)
	if err != nil {
		return fmt.Errorf("failed to read auth state: %w", err)
	}

	if !authenticated {
		if s.state != StateProfileSetup {
			s.state = StateCodeEntry
		}
		return nil
	}

	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	if profile.Complete() {
		s.state = StateAuthenticated
	} else {
		s.state = StateProfileSetup
	}
	return nil
}
