package recordstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/repository/memory"
	"github.com/dtroode/m2m-server/internal/testutil"
)

func newStore(t *testing.T, opts ...Option) (*Store, *memory.DeviceRecordRepository) {
	t.Helper()
	kv := memory.NewDeviceRecordRepository()
	return New(kv, testutil.MakeNoopLogger(), opts...), kv
}

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingKV) Set(context.Context, string, []byte) error         { return f.err }
func (f failingKV) Delete(context.Context, string) error              { return f.err }
func (f failingKV) Keys(context.Context) ([]string, error)            { return nil, f.err }

func TestStore_GetSetRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, kv := newStore(t)

	got, err := Get(ctx, s, "custom", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)

	require.NoError(t, s.Set(ctx, "custom", "value"))
	raw, ok, err := kv.Get(ctx, "custom")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":1,"data":"value"}`, string(raw))

	got, err = Get(ctx, s, "custom", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	require.NoError(t, s.Remove(ctx, "custom"))
	require.NoError(t, s.Remove(ctx, "custom"))
	got, err = Get(ctx, s, "custom", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestStore_Lookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name        string
		raw         string
		wantStatus  Status
		wantValue   int
		wantVersion int
	}{
		{name: "versioned", raw: `{"v":1,"data":42}`, wantStatus: StatusOK, wantValue: 42, wantVersion: 1},
		{name: "legacy", raw: `42`, wantStatus: StatusOK, wantValue: 42, wantVersion: 0},
		{name: "malformed", raw: `{not json`, wantStatus: StatusCorrupt},
		{name: "wrong type", raw: `{"v":1,"data":"text"}`, wantStatus: StatusCorrupt, wantVersion: 1},
		{name: "future version", raw: `{"v":7,"data":42}`, wantStatus: StatusCorrupt, wantVersion: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, kv := newStore(t)
			require.NoError(t, kv.Set(ctx, "k", []byte(tt.raw)))

			res, err := Lookup[int](ctx, s, "k")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantValue, res.Value)
			assert.Equal(t, tt.wantVersion, res.Version)
			if tt.wantStatus == StatusCorrupt {
				assert.Equal(t, tt.raw, string(res.Raw))
			}
		})
	}

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t)
		res, err := Lookup[int](ctx, s, "missing")
		require.NoError(t, err)
		assert.Equal(t, StatusAbsent, res.Status)
		assert.Equal(t, 9, res.ValueOr(9))
	})

	t.Run("backend failure is returned", func(t *testing.T) {
		t.Parallel()
		s := New(failingKV{err: errors.New("db down")}, testutil.MakeNoopLogger())
		_, err := Lookup[int](ctx, s, "k")
		require.Error(t, err)
	})
}

func TestStore_Profile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t)
		image := "profiles/x.png"
		profile := model.UserProfile{ID: uuid.New(), Name: "Alex", Email: "alex@example.com", ProfileImage: &image}
		require.NoError(t, s.SaveProfile(ctx, profile))

		got, err := s.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, profile, got)
	})

	t.Run("legacy layout", func(t *testing.T) {
		t.Parallel()
		s, kv := newStore(t)
		require.NoError(t, kv.Set(ctx, KeyProfile, []byte(`{"name":"Alex","email":"","profileImage":null}`)))

		res, err := s.LookupProfile(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusOK, res.Status)
		assert.Equal(t, 0, res.Version)
		assert.Equal(t, "Alex", res.Value.Name)
		assert.Nil(t, res.Value.ProfileImage)
	})

	t.Run("corrupt falls back to empty profile", func(t *testing.T) {
		t.Parallel()
		s, kv := newStore(t)
		require.NoError(t, kv.Set(ctx, KeyProfile, []byte(`{{{`)))

		got, err := s.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.UserProfile{}, got)
		assert.False(t, got.Complete())
	})
}

func TestStore_Authenticated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("set and clear", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t)

		ok, err := s.Authenticated(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.SetAuthenticated(ctx))
		ok, err = s.Authenticated(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, s.ClearAuthentication(ctx))
		ok, err = s.Authenticated(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("legacy raw access code", func(t *testing.T) {
		t.Parallel()
		s, kv := newStore(t, WithLegacyAccessCode(func(code string) bool { return code == "1228" }))
		require.NoError(t, kv.Set(ctx, KeyAuth, []byte("1228")))

		ok, err := s.Authenticated(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, kv.Set(ctx, KeyAuth, []byte("0000")))
		ok, err = s.Authenticated(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("legacy value without matcher is unauthenticated", func(t *testing.T) {
		t.Parallel()
		s, kv := newStore(t)
		require.NoError(t, kv.Set(ctx, KeyAuth, []byte("1228")))

		ok, err := s.Authenticated(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStore_Payments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("absent is empty", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t)
		payments, err := s.Payments(ctx)
		require.NoError(t, err)
		assert.NotNil(t, payments)
		assert.Empty(t, payments)
	})

	t.Run("corrupt is empty", func(t *testing.T) {
		t.Parallel()
		s, kv := newStore(t)
		require.NoError(t, kv.Set(ctx, KeyPayments, []byte(`{"not":"a list"}`)))
		payments, err := s.Payments(ctx)
		require.NoError(t, err)
		assert.Empty(t, payments)
	})

	t.Run("modify preserves order", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t)
		for _, date := range []string{"2024-03-05", "2024-03-01", "2024-03-09"} {
			date := date
			require.NoError(t, s.ModifyPayments(ctx, func(ps []model.Payment) ([]model.Payment, error) {
				return append(ps, model.Payment{ID: uuid.New(), Date: date, DueAmount: decimal.NewFromInt(10)}), nil
			}))
		}

		payments, err := s.Payments(ctx)
		require.NoError(t, err)
		require.Len(t, payments, 3)
		assert.Equal(t, "2024-03-05", payments[0].Date)
		assert.Equal(t, "2024-03-01", payments[1].Date)
		assert.Equal(t, "2024-03-09", payments[2].Date)
	})

	t.Run("modify error leaves ledger untouched", func(t *testing.T) {
		t.Parallel()
		s, _ := newStore(t)
		require.NoError(t, s.ModifyPayments(ctx, func(ps []model.Payment) ([]model.Payment, error) {
			return append(ps, model.Payment{ID: uuid.New(), Date: "2024-03-05"}), nil
		}))

		boom := errors.New("boom")
		err := s.ModifyPayments(ctx, func(ps []model.Payment) ([]model.Payment, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)

		payments, err := s.Payments(ctx)
		require.NoError(t, err)
		assert.Len(t, payments, 1)
	})

	t.Run("legacy records get stable ids", func(t *testing.T) {
		t.Parallel()
		s, kv := newStore(t)
		legacy := `[{"date":"2024-03-05","dueAmount":10,"giftCardAmount":0,"note":"","giftCardRequestSent":false},` +
			`{"date":"2024-03-06","dueAmount":12.5,"giftCardAmount":20,"note":"x","giftCardRequestSent":false}]`
		require.NoError(t, kv.Set(ctx, KeyPayments, []byte(legacy)))

		first, err := s.Payments(ctx)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.NotEqual(t, uuid.Nil, first[0].ID)
		assert.NotEqual(t, first[0].ID, first[1].ID)
		assert.True(t, decimal.RequireFromString("12.5").Equal(first[1].DueAmount))
		assert.False(t, first[0].GrossAmount.Valid)

		second, err := s.Payments(ctx)
		require.NoError(t, err)
		assert.Equal(t, first[0].ID, second[0].ID)
		assert.Equal(t, first[1].ID, second[1].ID)
	})
}

func TestStore_LastShown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	_, ok, err := s.LastShown(ctx, model.ChecklistEvening)
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveLastShown(ctx, model.ChecklistEvening, at))

	got, ok, err := s.LastShown(ctx, model.ChecklistEvening)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at.Equal(got))

	_, ok, err = s.LastShown(ctx, model.ChecklistNight)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClearAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, kv := newStore(t)

	require.NoError(t, s.SetAuthenticated(ctx))
	require.NoError(t, s.SaveProfile(ctx, model.UserProfile{Name: "Alex"}))
	require.NoError(t, s.ModifyPayments(ctx, func(ps []model.Payment) ([]model.Payment, error) {
		return append(ps, model.Payment{ID: uuid.New(), Date: "2024-03-05"}), nil
	}))
	require.NoError(t, s.SaveLastShown(ctx, model.ChecklistNight, time.Now()))
	require.NoError(t, kv.Set(ctx, "unrelated", []byte("keep")))

	var hooked int
	s.OnReset(func() { hooked++ })
	s.OnReset(func() { hooked++ })

	require.NoError(t, s.ClearAll(ctx))
	assert.Equal(t, 2, hooked)

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"unrelated"}, keys)

	ok, err := s.Authenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
