package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/imaging"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Profile maintains the therapist profile and its photo.
type Profile struct {
	profiles model.ProfileStore
	storage  model.Storage
	logger   *logger.Logger
}

func NewProfile(profiles model.ProfileStore, storage model.Storage, logger *logger.Logger) *Profile {
	return &Profile{
		profiles: profiles,
		storage:  storage,
		logger:   logger,
	}
}

func (s *Profile) Get(ctx context.Context) (model.UserProfile, error) {
	profile, err := s.profiles.Profile(ctx)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	if !profile.Complete() {
		return model.UserProfile{}, model.ErrNotFound
	}
	if profile.ProfileImage != nil && isDataURL(*profile.ProfileImage) {
		profile = s.migrateLegacyPhoto(ctx, profile)
	}
	return profile, nil
}

// migrateLegacyPhoto moves a photo stored inline as a data URL into object
// storage. Unreadable images are dropped; upload failures keep the data URL
// so the next read retries.
func (s *Profile) migrateLegacyPhoto(ctx context.Context, profile model.UserProfile) model.UserProfile {
	raw, err := imaging.DecodeDataURL(*profile.ProfileImage)
	var key string
	if err == nil {
		key, err = s.StorePhoto(ctx, profile.ID, raw)
	}

	switch {
	case errors.Is(err, model.ErrInvalidImage):
		s.logger.Warn("Profile service: dropping unreadable legacy photo", "profile_id", profile.ID, "error", err)
		profile.ProfileImage = nil
	case err != nil:
		s.logger.Warn("Profile service: failed to migrate legacy photo", "profile_id", profile.ID, "error", err)
		return profile
	default:
		profile.ProfileImage = &key
	}

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		s.logger.Warn("Profile service: failed to save migrated photo", "profile_id", profile.ID, "error", err)
	}
	return profile
}

// Update changes the name and email of an existing profile.
func (s *Profile) Update(ctx context.Context, name, email string) (model.UserProfile, error) {
	name, email, err := validateProfile(name, email)
	if err != nil {
		return model.UserProfile{}, err
	}

	profile, err := s.Get(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}

	profile.Name = name
	profile.Email = email
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("Profile service: profile updated", "profile_id", profile.ID)
	return profile, nil
}

// ChangePhoto replaces the profile photo and removes the previous object.
func (s *Profile) ChangePhoto(ctx context.Context, raw []byte) (model.UserProfile, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}

	key, err := s.StorePhoto(ctx, profile.ID, raw)
	if err != nil {
		return model.UserProfile{}, err
	}

	previous := profile.ProfileImage
	profile.ProfileImage = &key
	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	if previous != nil && *previous != key {
		s.DeletePhoto(ctx, *previous)
	}

	return profile, nil
}

// StorePhoto normalizes raw and uploads it, returning the object key.
func (s *Profile) StorePhoto(ctx context.Context, profileID uuid.UUID, raw []byte) (string, error) {
	normalized, err := imaging.NormalizeProfilePhoto(raw)
	if err != nil {
		return "", err
	}

	key := PhotoKey(profileID)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(normalized), int64(len(normalized)), imaging.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	s.logger.Info("Profile service: photo stored", "profile_id", profileID, "key", key, "bytes", len(normalized))
	return key, nil
}

// DeletePhoto removes a stored photo. Failures are logged and ignored.
func (s *Profile) DeletePhoto(ctx context.Context, key string) {
	if key == "" || isDataURL(key) {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("Profile service: failed to delete photo", "key", key, "error", err)
	}
}

// Photo returns the PNG bytes of the current profile photo.
func (s *Profile) Photo(ctx context.Context) ([]byte, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if profile.ProfileImage == nil {
		return nil, model.ErrNotFound
	}
	if isDataURL(*profile.ProfileImage) {
		raw, err := imaging.DecodeDataURL(*profile.ProfileImage)
		if err != nil {
			return nil, err
		}
		return imaging.NormalizeProfilePhoto(raw)
	}

	reader, err := s.storage.Download(ctx, *profile.ProfileImage)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, imaging.MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	return data, nil
}

func isDataURL(image string) bool {
	return strings.HasPrefix(image, "data:")
}

// PhotoKey returns a fresh object key for a profile photo.
func PhotoKey(profileID uuid.UUID) string {
	return fmt.Sprintf("profiles/%s/%s.png", profileID, uuid.New())
}

func validateProfile(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", model.ErrNameRequired
	}

	email = strings.TrimSpace(email)
	if email != "" && !emailPattern.MatchString(email) {
		return "", "", model.ErrInvalidEmail
	}

	return name, email, nil
}
