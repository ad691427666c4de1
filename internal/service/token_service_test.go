package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/m2m-server/internal/mocks"
	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()
	store := newStore(t)

	manager := servermocks.NewTokenManager(t)
	manager.On("GenerateSessionToken", profileID).Return("session", nil).Once()

	svc := NewTokenService(manager, store, store, testutil.MakeNoopLogger())

	token, err := svc.Issue(ctx, profileID)
	require.NoError(t, err)
	assert.Equal(t, "session", token)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()
	store := newStore(t)

	manager := servermocks.NewTokenManager(t)
	manager.On("GenerateSessionToken", profileID).Return("", assert.AnError).Once()

	svc := NewTokenService(manager, store, store, testutil.MakeNoopLogger())

	_, err := svc.Issue(ctx, profileID)
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_GetProfileID(t *testing.T) {
	ctx := context.Background()

	t.Run("valid session", func(t *testing.T) {
		store := newStore(t)
		profile := seedProfile(t, store, "Max", "")
		require.NoError(t, store.SetAuthenticated(ctx))

		manager := servermocks.NewTokenManager(t)
		manager.On("ParseSessionToken", "tok").Return(profile.ID, nil).Once()

		svc := NewTokenService(manager, store, store, testutil.MakeNoopLogger())
		got, err := svc.GetProfileID(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, profile.ID, got)
	})

	t.Run("logged out device", func(t *testing.T) {
		store := newStore(t)
		profile := seedProfile(t, store, "Max", "")

		manager := servermocks.NewTokenManager(t)
		manager.On("ParseSessionToken", "tok").Return(profile.ID, nil).Once()

		svc := NewTokenService(manager, store, store, testutil.MakeNoopLogger())
		_, err := svc.GetProfileID(ctx, "tok")
		require.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("profile replaced", func(t *testing.T) {
		store := newStore(t)
		seedProfile(t, store, "Max", "")
		require.NoError(t, store.SetAuthenticated(ctx))

		manager := servermocks.NewTokenManager(t)
		manager.On("ParseSessionToken", "tok").Return(uuid.New(), nil).Once()

		svc := NewTokenService(manager, store, store, testutil.MakeNoopLogger())
		_, err := svc.GetProfileID(ctx, "tok")
		require.ErrorIs(t, err, model.ErrUnauthenticated)
	})

	t.Run("invalid token", func(t *testing.T) {
		store := newStore(t)

		manager := servermocks.NewTokenManager(t)
		manager.On("ParseSessionToken", "bad").Return(uuid.Nil, assert.AnError).Once()

		svc := NewTokenService(manager, store, store, testutil.MakeNoopLogger())
		_, err := svc.GetProfileID(ctx, "bad")
		require.ErrorIs(t, err, model.ErrUnauthenticated)
	})
}
