package checklist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/m2m-server/internal/model"
	"github.com/dtroode/m2m-server/internal/recordstore"
	"github.com/dtroode/m2m-server/internal/repository/memory"
	"github.com/dtroode/m2m-server/internal/testutil"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type locatorFunc func(ctx context.Context) (Position, error)

func (f locatorFunc) Locate(ctx context.Context) (Position, error) { return f(ctx) }

func newGate(t *testing.T, start time.Time, opts ...Option) (*Gate, *clock, *recordstore.Store) {
	t.Helper()
	c := &clock{now: start}
	store := recordstore.New(memory.NewDeviceRecordRepository(), testutil.MakeNoopLogger())
	opts = append([]Option{WithClock(c.Now), WithLocation(time.UTC)}, opts...)
	return NewGate(store, testutil.MakeNoopLogger(), opts...), c, store
}

func checkAll(t *testing.T, g *Gate) {
	t.Helper()
	for _, item := range g.Snapshot().Items {
		_, err := g.Check(item.ID, true)
		require.NoError(t, err)
	}
}

func TestGate_EveningConfirmFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, c, store := newGate(t, at(5, 17, 45))

	typ, due, err := g.ShouldPrompt(ctx)
	require.NoError(t, err)
	assert.True(t, due)
	assert.Equal(t, model.ChecklistEvening, typ)

	snap, err := g.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatePrompted, snap.State)
	assert.Equal(t, "Evening Shift Checklist", snap.Title)
	assert.Len(t, snap.Items, 6)
	assert.False(t, snap.Complete())

	_, err = g.Confirm(ctx)
	require.ErrorIs(t, err, model.ErrChecklistIncomplete)

	checkAll(t, g)
	snap, err = g.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, snap.State)

	_, due, err = g.ShouldPrompt(ctx)
	require.NoError(t, err)
	assert.False(t, due)

	snap, err = g.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, snap.State)

	last, ok, err := store.LastShown(ctx, model.ChecklistEvening)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at(5, 17, 45).Equal(last))

	c.Set(at(5, 18, 25))
	_, due, err = g.ShouldPrompt(ctx)
	require.NoError(t, err)
	assert.False(t, due)

	c.Set(at(6, 17, 45))
	typ, due, err = g.ShouldPrompt(ctx)
	require.NoError(t, err)
	assert.True(t, due)
	assert.Equal(t, model.ChecklistEvening, typ)

	snap, err = g.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatePrompted, snap.State)
	assert.False(t, snap.Complete())
}

func TestGate_EvaluateIsIdempotentWhilePrompted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, _, _ := newGate(t, at(5, 17, 45))

	_, err := g.Evaluate(ctx)
	require.NoError(t, err)
	_, err = g.Check("towels", true)
	require.NoError(t, err)

	snap, err := g.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatePrompted, snap.State)
	assert.True(t, snap.Items[1].Checked)
}

func TestGate_NightAcrossMidnight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("confirmed before midnight holds after midnight", func(t *testing.T) {
		t.Parallel()
		g, c, _ := newGate(t, at(5, 23, 45))

		_, err := g.Evaluate(ctx)
		require.NoError(t, err)
		checkAll(t, g)
		_, err = g.Confirm(ctx)
		require.NoError(t, err)

		c.Set(at(6, 0, 15))
		_, due, err := g.ShouldPrompt(ctx)
		require.NoError(t, err)
		assert.False(t, due)
	})

	t.Run("confirmed after midnight does not suppress next night", func(t *testing.T) {
		t.Parallel()
		g, c, store := newGate(t, at(6, 23, 45))
		require.NoError(t, store.SaveLastShown(ctx, model.ChecklistNight, at(6, 0, 15)))

		typ, due, err := g.ShouldPrompt(ctx)
		require.NoError(t, err)
		assert.True(t, due)
		assert.Equal(t, model.ChecklistNight, typ)

		c.Set(at(7, 0, 20))
		_, due, err = g.ShouldPrompt(ctx)
		require.NoError(t, err)
		assert.True(t, due)
	})

	t.Run("after window end", func(t *testing.T) {
		t.Parallel()
		g, _, _ := newGate(t, at(6, 0, 31))

		_, due, err := g.ShouldPrompt(ctx)
		require.NoError(t, err)
		assert.False(t, due)

		snap, err := g.Evaluate(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateIdle, snap.State)
	})
}

func TestGate_OutsideWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, _, _ := newGate(t, at(5, 14, 0))

	typ, due, err := g.ShouldPrompt(ctx)
	require.NoError(t, err)
	assert.False(t, due)
	assert.Empty(t, typ)

	snap, err := g.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Items)
}

func TestGate_RemindLater(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, c, store := newGate(t, at(5, 17, 35), WithSnooze(20*time.Minute))

	_, err := g.Evaluate(ctx)
	require.NoError(t, err)

	snap, err := g.RemindLater()
	require.NoError(t, err)
	assert.Equal(t, StateIdle, snap.State)

	_, ok, err := store.LastShown(ctx, model.ChecklistEvening)
	require.NoError(t, err)
	assert.False(t, ok)

	c.Set(at(5, 17, 50))
	snap, err = g.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, snap.State)

	_, due, err := g.ShouldPrompt(ctx)
	require.NoError(t, err)
	assert.True(t, due)

	c.Set(at(5, 17, 56))
	snap, err = g.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatePrompted, snap.State)

	_, err = g.RemindLater()
	require.NoError(t, err)
	_, err = g.RemindLater()
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestGate_ShowManual(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	g, _, store := newGate(t, at(5, 14, 0))

	snap, err := g.ShowManual(model.ChecklistNight)
	require.NoError(t, err)
	assert.Equal(t, StatePrompted, snap.State)
	assert.True(t, snap.Manual)
	assert.Len(t, snap.Items, 7)

	checkAll(t, g)
	snap, err = g.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, snap.State)

	_, ok, err := store.LastShown(ctx, model.ChecklistNight)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = g.ShowManual(model.ChecklistType("weekly"))
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestGate_Check(t *testing.T) {
	t.Parallel()
	g, _, _ := newGate(t, at(5, 14, 0))

	_, err := g.Check("towels", true)
	require.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = g.ShowManual(model.ChecklistEvening)
	require.NoError(t, err)

	snap, err := g.Check("towels", true)
	require.NoError(t, err)
	assert.True(t, snap.Items[1].Checked)

	snap, err = g.Check("towels", false)
	require.NoError(t, err)
	assert.False(t, snap.Items[1].Checked)

	_, err = g.Check("unknown", true)
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = g.Confirm(context.Background())
	require.ErrorIs(t, err, model.ErrChecklistIncomplete)
}

func TestGate_Geofence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fence := Geofence{Shops: DefaultShops, RadiusMeters: 150}

	tests := []struct {
		name      string
		locator   Locator
		timeout   time.Duration
		wantState State
	}{
		{
			name:      "inside shop",
			locator:   locatorFunc(func(context.Context) (Position, error) { return Position{Lat: 52.5390, Lon: 13.4250}, nil }),
			timeout:   time.Second,
			wantState: StatePrompted,
		},
		{
			name:      "away from shops",
			locator:   locatorFunc(func(context.Context) (Position, error) { return Position{Lat: 48.1, Lon: 11.5}, nil }),
			timeout:   time.Second,
			wantState: StateIdle,
		},
		{
			name:      "locator error fails open",
			locator:   locatorFunc(func(context.Context) (Position, error) { return Position{}, errors.New("permission denied") }),
			timeout:   time.Second,
			wantState: StatePrompted,
		},
		{
			name: "locator timeout fails open",
			locator: locatorFunc(func(ctx context.Context) (Position, error) {
				<-ctx.Done()
				return Position{}, ctx.Err()
			}),
			timeout:   10 * time.Millisecond,
			wantState: StatePrompted,
		},
		{
			name:      "no fix fails open",
			locator:   NewLastKnown(time.Minute),
			timeout:   time.Second,
			wantState: StatePrompted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g, _, _ := newGate(t, at(5, 18, 0), WithGeofence(tt.locator, fence, tt.timeout))

			snap, err := g.Evaluate(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, snap.State)
		})
	}
}

func TestGate_Reset(t *testing.T) {
	t.Parallel()
	g, _, _ := newGate(t, at(5, 17, 45))

	_, err := g.Evaluate(context.Background())
	require.NoError(t, err)

	g.Reset()
	snap := g.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Items)
}
