package recordstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// Device record keys.
const (
	KeyAuth            = "m2m_access"
	KeyProfile         = "m2m_user_data"
	KeyPayments        = "m2m_payments"
	keyLastShownPrefix = "m2m_checklist_last_shown_"
)

// legacyPaymentNamespace seeds ids for payments stored before ids existed.
var legacyPaymentNamespace = uuid.MustParse("6f1c2a4e-9b0d-4c55-8a3e-2d7f0e1b9c64")

var (
	_ model.PaymentStore   = (*Store)(nil)
	_ model.ProfileStore   = (*Store)(nil)
	_ model.AuthStore      = (*Store)(nil)
	_ model.ChecklistStore = (*Store)(nil)
)

// LastShownKey returns the key holding the last confirmation of a checklist.
func LastShownKey(checklist model.ChecklistType) string {
	return keyLastShownPrefix + string(checklist)
}

// Option configures a Store.
type Option func(*Store)

// WithLegacyAccessCode accepts unversioned auth flags for which match returns true.
func WithLegacyAccessCode(match func(code string) bool) Option {
	return func(s *Store) {
		s.legacyAuth = match
	}
}

// Store is the typed, versioned view over a device's key-value records.
type Store struct {
	kv         model.KeyValue
	logger     *logger.Logger
	legacyAuth func(string) bool

	// mu serializes read-modify-write cycles over the payments ledger.
	mu sync.Mutex

	hooksMu    sync.Mutex
	resetHooks []func()
}

func New(kv model.KeyValue, logger *logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lookup[T any](ctx context.Context, s *Store, key string) (Result[T], error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return Result[T]{}, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return Result[T]{Status: StatusAbsent}, nil
	}

	value, version, err := decode[T](raw)
	if err != nil {
		s.logger.Warn("Record store: stored value is corrupt, using default", "key", key, "error", err)
		return Result[T]{Status: StatusCorrupt, Raw: raw, Version: version}, nil
	}

	return Result[T]{Status: StatusOK, Value: value, Version: version}, nil
}

// Get reads key into a value of type T, returning fallback when it is absent or corrupt.
func Get[T any](ctx context.Context, s *Store, key string, fallback T) (T, error) {
	res, err := lookup[T](ctx, s, key)
	if err != nil {
		return fallback, err
	}
	return res.ValueOr(fallback), nil
}

// Lookup reads key and reports how it was resolved.
func Lookup[T any](ctx context.Context, s *Store, key string) (Result[T], error) {
	return lookup[T](ctx, s, key)
}

// Set stores value under key in the current envelope version.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}

	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *Store) Authenticated(ctx context.Context) (bool, error) {
	res, err := lookup[bool](ctx, s, KeyAuth)
	if err != nil {
		return false, err
	}

	if res.Status == StatusCorrupt && res.Version == 0 && s.legacyAuth != nil {
		code := strings.TrimSpace(string(res.Raw))
		if unquoted, err := strconv.Unquote(code); err == nil {
			code = unquoted
		}
		return s.legacyAuth(code), nil
	}

	return res.ValueOr(false), nil
}

func (s *Store) SetAuthenticated(ctx context.Context) error {
	return s.Set(ctx, KeyAuth, true)
}

func (s *Store) ClearAuthentication(ctx context.Context) error {
	return s.Remove(ctx, KeyAuth)
}

// LookupProfile reads the profile with its resolution status.
func (s *Store) LookupProfile(ctx context.Context) (Result[model.UserProfile], error) {
	return lookup[model.UserProfile](ctx, s, KeyProfile)
}

func (s *Store) Profile(ctx context.Context) (model.UserProfile, error) {
	res, err := s.LookupProfile(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}
	return res.ValueOr(model.UserProfile{}), nil
}

func (s *Store) SaveProfile(ctx context.Context, profile model.UserProfile) error {
	return s.Set(ctx, KeyProfile, profile)
}

// LookupPayments reads the ledger with its resolution status.
func (s *Store) LookupPayments(ctx context.Context) (Result[[]model.Payment], error) {
	res, err := lookup[[]model.Payment](ctx, s, KeyPayments)
	if err != nil {
		return res, err
	}
	if res.Status == StatusOK {
		res.Value = assignLegacyIDs(res.Value)
	}
	return res, nil
}

func (s *Store) Payments(ctx context.Context) ([]model.Payment, error) {
	res, err := s.LookupPayments(ctx)
	if err != nil {
		return nil, err
	}
	payments := res.ValueOr(nil)
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments, nil
}

func (s *Store) ModifyPayments(ctx context.Context, fn func([]model.Payment) ([]model.Payment, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Payments(ctx)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		next = []model.Payment{}
	}

	return s.Set(ctx, KeyPayments, next)
}

func (s *Store) LastShown(ctx context.Context, checklist model.ChecklistType) (time.Time, bool, error) {
	res, err := lookup[time.Time](ctx, s, LastShownKey(checklist))
	if err != nil {
		return time.Time{}, false, err
	}
	if res.Status != StatusOK {
		return time.Time{}, false, nil
	}
	return res.Value, true, nil
}

func (s *Store) SaveLastShown(ctx context.Context, checklist model.ChecklistType, at time.Time) error {
	return s.Set(ctx, LastShownKey(checklist), at)
}

// OnReset registers fn to run after ClearAll wipes the device.
func (s *Store) OnReset(fn func()) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.resetHooks = append(s.resetHooks, fn)
}

// ClearAll removes every record this application owns and runs reset hooks.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	for _, key := range keys {
		if !owned(key) {
			continue
		}
		if err := s.Remove(ctx, key); err != nil {
			return err
		}
	}

	s.hooksMu.Lock()
	hooks := append([]func(){}, s.resetHooks...)
	s.hooksMu.Unlock()
	for _, hook := range hooks {
		hook()
	}

	s.logger.Info("Record store: device records cleared", "removed_candidates", len(keys))
	return nil
}

func owned(key string) bool {
	switch key {
	case KeyAuth, KeyProfile, KeyPayments:
		return true
	}
	return strings.HasPrefix(key, keyLastShownPrefix)
}

// assignLegacyIDs gives id-less payments a stable id derived from position and content.
func assignLegacyIDs(payments []model.Payment) []model.Payment {
	for i, p := range payments {
		if p.ID != uuid.Nil {
			continue
		}
		seed := fmt.Sprintf("%d|%s|%s|%s|%s", i, p.Date, p.DueAmount.String(), p.GiftCardAmount.String(), p.Note)
		payments[i].ID = uuid.NewSHA1(legacyPaymentNamespace, []byte(seed))
	}
	return payments
}
