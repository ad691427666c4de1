package handler

import (
	"context"

	"github.com/dtroode/m2m-server/internal/imaging"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// ProfileService maintains the therapist profile.
type ProfileService interface {
	Get(ctx context.Context) (model.UserProfile, error)
	Update(ctx context.Context, name, email string) (model.UserProfile, error)
	ChangePhoto(ctx context.Context, raw []byte) (model.UserProfile, error)
	Photo(ctx context.Context) ([]byte, error)
}

var _ ProfileServer = (*ProfileHandler)(nil)

// ProfileHandler serves the signed-in profile endpoints, including logout and
// account deletion.
type ProfileHandler struct {
	profileService ProfileService
	authService    AuthService
	logger         *logger.Logger
}

func NewProfile(profileService ProfileService, authService AuthService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
		logger:         logger,
	}
}

func (h *ProfileHandler) Get(ctx context.Context, _ *Empty) (*Profile, error) {
	profile, err := h.profileService.Get(ctx)
	if err != nil {
		return nil, handleError(err)
	}
	return toProfile(profile), nil
}

func (h *ProfileHandler) Update(ctx context.Context, req *UpdateProfileRequest) (*Profile, error) {
	profile, err := h.profileService.Update(ctx, req.Name, req.Email)
	if err != nil {
		h.logger.Info("Profile handler: update rejected", "error", err.Error())
		return nil, handleError(err)
	}
	return toProfile(profile), nil
}

func (h *ProfileHandler) ChangePhoto(ctx context.Context, req *ChangePhotoRequest) (*Profile, error) {
	raw, err := imageBytes(req.Image, req.ImageDataURL)
	if err != nil {
		return nil, handleError(err)
	}
	if len(raw) == 0 {
		return nil, handleError(model.ErrInvalidImage)
	}

	profile, err := h.profileService.ChangePhoto(ctx, raw)
	if err != nil {
		h.logger.Info("Profile handler: photo change failed", "error", err.Error())
		return nil, handleError(err)
	}
	return toProfile(profile), nil
}

func (h *ProfileHandler) Photo(ctx context.Context, _ *Empty) (*PhotoResponse, error) {
	data, err := h.profileService.Photo(ctx)
	if err != nil {
		return nil, handleError(err)
	}
	return &PhotoResponse{ContentType: imaging.ContentType, Data: data}, nil
}

func (h *ProfileHandler) Logout(ctx context.Context, _ *Empty) (*Empty, error) {
	if err := h.authService.Logout(ctx); err != nil {
		h.logger.Error("Profile handler: logout failed", "error", err.Error())
		return nil, handleError(err)
	}
	return &Empty{}, nil
}

func (h *ProfileHandler) DeleteAccount(ctx context.Context, _ *Empty) (*Empty, error) {
	if err := h.authService.DeleteAccount(ctx); err != nil {
		h.logger.Error("Profile handler: account deletion failed", "error", err.Error())
		return nil, handleError(err)
	}
	return &Empty{}, nil
}
