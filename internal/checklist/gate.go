package checklist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// State is the gate's position in the prompt lifecycle.
type State int

const (
	StateIdle State = iota
	StateWithinWindow
	StatePrompted
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWithinWindow:
		return "within_window"
	case StatePrompted:
		return "prompted"
	case StateConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a copy of the gate's state for display.
type Snapshot struct {
	State       State
	Type        model.ChecklistType
	Title       string
	Items       []Item
	Manual      bool
	ConfirmedAt time.Time
}

// Complete reports whether every item is checked.
func (s Snapshot) Complete() bool {
	return allChecked(s.Items)
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock sets the gate's time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// WithLocation sets the time zone the windows are defined in.
func WithLocation(loc *time.Location) Option {
	return func(g *Gate) {
		g.loc = loc
	}
}

// WithGeofence only prompts when locator places the device inside fence.
// Locator failures and timeouts let the prompt through.
func WithGeofence(locator Locator, fence Geofence, timeout time.Duration) Option {
	return func(g *Gate) {
		g.locator = locator
		g.fence = fence
		g.geoTimeout = timeout
	}
}

// WithWindows replaces the default checklist windows.
func WithWindows(windows []Window) Option {
	return func(g *Gate) {
		g.windows = windows
	}
}

// WithSnooze sets how long Remind Later suppresses the prompt.
func WithSnooze(d time.Duration) Option {
	return func(g *Gate) {
		g.snooze = d
	}
}

// Gate decides when a checklist is due and holds the one in progress.
type Gate struct {
	store      model.ChecklistStore
	logger     *logger.Logger
	now        func() time.Time
	loc        *time.Location
	windows    []Window
	locator    Locator
	fence      Geofence
	geoTimeout time.Duration
	snooze     time.Duration

	mu           sync.Mutex
	state        State
	window       Window
	items        []Item
	manual       bool
	confirmedAt  time.Time
	snoozedUntil time.Time
}

func NewGate(store model.ChecklistStore, logger *logger.Logger, opts ...Option) *Gate {
	g := &Gate{
		store:      store,
		logger:     logger,
		now:        time.Now,
		loc:        time.Local,
		windows:    DefaultWindows,
		geoTimeout: 10 * time.Second,
		snooze:     30 * time.Minute,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ShouldPrompt reports which checklist is due now, if any. It ignores the
// geofence and the in-memory prompt state.
func (g *Gate) ShouldPrompt(ctx context.Context) (model.ChecklistType, bool, error) {
	now := g.clock()
	w, ok := WindowAt(g.windows, now)
	if !ok {
		return "", false, nil
	}

	shown, err := g.shownForShift(ctx, w, now)
	if err != nil {
		return "", false, err
	}

	return w.Type, !shown, nil
}

// Evaluate runs the time, history and geofence checks and opens a prompt when
// they pass. An open prompt is returned unchanged.
func (g *Gate) Evaluate(ctx context.Context) (Snapshot, error) {
	g.mu.Lock()
	if g.state == StatePrompted || g.state == StateWithinWindow {
		snap := g.snapshotLocked()
		g.mu.Unlock()
		return snap, nil
	}

	now := g.clock()
	w, inWindow := WindowAt(g.windows, now)
	due := false
	if inWindow && now.After(g.snoozedUntil) {
		shown, err := g.shownForShift(ctx, w, now)
		if err != nil {
			g.mu.Unlock()
			return Snapshot{}, fmt.Errorf("failed to read checklist history: %w", err)
		}
		due = !shown
	}

	if !due {
		if g.state != StateConfirmed || !inWindow || w.Type != g.window.Type {
			g.state = StateIdle
		}
		snap := g.snapshotLocked()
		g.mu.Unlock()
		return snap, nil
	}

	g.state = StateWithinWindow
	g.window = w
	g.mu.Unlock()

	inside := g.atShop(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateWithinWindow || g.window.Type != w.Type {
		return g.snapshotLocked(), nil
	}
	if !inside {
		g.state = StateIdle
		return g.snapshotLocked(), nil
	}

	g.openLocked(w, false)
	g.logger.Info("Checklist: prompt opened", "type", w.Type)

	return g.snapshotLocked(), nil
}

// Check sets an item's checked flag on the open prompt.
func (g *Gate) Check(itemID string, checked bool) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePrompted {
		return Snapshot{}, model.ErrInvalidTransition
	}

	for i := range g.items {
		if g.items[i].ID == itemID {
			g.items[i].Checked = checked
			return g.snapshotLocked(), nil
		}
	}

	return Snapshot{}, fmt.Errorf("checklist item %q: %w", itemID, model.ErrNotFound)
}

// Confirm closes a fully checked prompt. Scheduled prompts are remembered for
// the rest of the shift; manual ones are not.
func (g *Gate) Confirm(ctx context.Context) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePrompted {
		return Snapshot{}, model.ErrInvalidTransition
	}
	if !allChecked(g.items) {
		return Snapshot{}, model.ErrChecklistIncomplete
	}

	now := g.clock()
	if g.manual {
		g.state = StateIdle
		g.confirmedAt = now
		snap := g.snapshotLocked()
		g.items = nil
		return snap, nil
	}

	if err := g.store.SaveLastShown(ctx, g.window.Type, now); err != nil {
		return Snapshot{}, fmt.Errorf("failed to save checklist confirmation: %w", err)
	}

	g.state = StateConfirmed
	g.confirmedAt = now
	g.logger.Info("Checklist: confirmed", "type", g.window.Type)

	return g.snapshotLocked(), nil
}

// RemindLater dismisses the prompt without recording it. A scheduled prompt
// is held back for the snooze period.
func (g *Gate) RemindLater() (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePrompted {
		return Snapshot{}, model.ErrInvalidTransition
	}

	if !g.manual {
		g.snoozedUntil = g.clock().Add(g.snooze)
	}
	g.state = StateIdle
	g.items = nil
	g.manual = false

	return g.snapshotLocked(), nil
}

// ShowManual opens a checklist on demand, replacing any open prompt.
func (g *Gate) ShowManual(kind model.ChecklistType) (Snapshot, error) {
	w, ok := windowFor(g.windows, kind)
	if !ok {
		return Snapshot{}, fmt.Errorf("checklist %q: %w", kind, model.ErrNotFound)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.openLocked(w, true)
	return g.snapshotLocked(), nil
}

// Snapshot returns the current state.
func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Reset returns the gate to idle, dropping any prompt and snooze.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = StateIdle
	g.window = Window{}
	g.items = nil
	g.manual = false
	g.confirmedAt = time.Time{}
	g.snoozedUntil = time.Time{}
}

func (g *Gate) openLocked(w Window, manual bool) {
	g.state = StatePrompted
	g.window = w
	g.items = Items(w.Type)
	g.manual = manual
}

func (g *Gate) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:       g.state,
		Manual:      g.manual,
		ConfirmedAt: g.confirmedAt,
	}
	if g.state != StateIdle {
		snap.Type = g.window.Type
		snap.Title = g.window.Title
		snap.Items = append([]Item(nil), g.items...)
	}
	return snap
}

func (g *Gate) shownForShift(ctx context.Context, w Window, now time.Time) (bool, error) {
	last, ok, err := g.store.LastShown(ctx, w.Type)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return w.ShiftDay(last.In(g.loc)) == w.ShiftDay(now), nil
}

func (g *Gate) atShop(ctx context.Context) bool {
	if g.locator == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, g.geoTimeout)
	defer cancel()

	pos, err := g.locator.Locate(ctx)
	if err != nil {
		g.logger.Warn("Checklist: position unavailable, skipping geofence", "error", err)
		return true
	}

	return g.fence.Contains(pos)
}

func (g *Gate) clock() time.Time {
	return g.now().In(g.loc)
}

func allChecked(items []Item) bool {
	for _, item := range items {
		if !item.Checked {
			return false
		}
	}
	return len(items) > 0
}
