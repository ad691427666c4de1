package handler

import (
	"context"

	"github.com/dtroode/m2m-server/internal/imaging"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/service"
)

// AuthService drives the sign-in flow of the device.
type AuthService interface {
	State(ctx context.Context) (service.AuthState, error)
	SubmitCode(ctx context.Context, code string) (service.Session, error)
	SubmitProfile(ctx context.Context, name, email string, photo []byte) (service.Session, error)
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

var _ AuthServer = (*AuthHandler)(nil)

// AuthHandler handles the unauthenticated sign-in endpoints.
type AuthHandler struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// State reports where the device stands in the sign-in flow.
func (h *AuthHandler) State(ctx context.Context, _ *Empty) (*StateResponse, error) {
	state, err := h.authService.State(ctx)
	if err != nil {
		h.logger.Error("Auth handler: failed to read state", "error", err.Error())
		return nil, handleError(err)
	}
	return &StateResponse{State: state.String()}, nil
}

// SubmitCode checks the access code.
func (h *AuthHandler) SubmitCode(ctx context.Context, req *SubmitCodeRequest) (*SessionResponse, error) {
	h.logger.Debug("Auth handler: processing access code")

	session, err := h.authService.SubmitCode(ctx, req.Code)
	if err != nil {
		h.logger.Info("Auth handler: access code rejected", "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: access code accepted", "state", session.State.String())
	return toSession(session), nil
}

// SubmitProfile completes profile setup.
func (h *AuthHandler) SubmitProfile(ctx context.Context, req *SubmitProfileRequest) (*SessionResponse, error) {
	h.logger.Debug("Auth handler: processing profile setup", "has_image", len(req.Image) > 0 || req.ImageDataURL != "")

	photo, err := imageBytes(req.Image, req.ImageDataURL)
	if err != nil {
		return nil, handleError(err)
	}

	session, err := h.authService.SubmitProfile(ctx, req.Name, req.Email, photo)
	if err != nil {
		h.logger.Info("Auth handler: profile setup failed", "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: profile setup completed", "profile_id", session.Profile.ID)
	return toSession(session), nil
}

func toSession(s service.Session) *SessionResponse {
	out := &SessionResponse{State: s.State.String(), Token: s.Token}
	if s.Profile.Complete() {
		out.Profile = toProfile(s.Profile)
	}
	return out
}

func imageBytes(raw []byte, dataURL string) ([]byte, error) {
	if len(raw) > 0 || dataURL == "" {
		return raw, nil
	}
	return imaging.DecodeDataURL(dataURL)
}
