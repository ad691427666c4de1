package recordstore

import (
	"encoding/json"
	"fmt"

	"github.com/dtroode/m2m-server/internal/model"
)

// SchemaVersion is the envelope version written by this build.
const SchemaVersion = 1

// Status tells how a stored value was resolved.
type Status int

const (
	// StatusAbsent means nothing is stored under the key.
	StatusAbsent Status = iota
	// StatusOK means the stored value decoded cleanly.
	StatusOK
	// StatusCorrupt means a value is stored but could not be decoded.
	StatusCorrupt
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusOK:
		return "ok"
	case StatusCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is a typed read that keeps corrupt values distinguishable from absent ones.
type Result[T any] struct {
	Status  Status
	Value   T
	Version int
	// Raw keeps the undecodable bytes when Status is StatusCorrupt.
	Raw []byte
}

// ValueOr returns the decoded value, or fallback when it is absent or corrupt.
func (r Result[T]) ValueOr(fallback T) T {
	if r.Status != StatusOK {
		return fallback
	}
	return r.Value
}

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

func encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	raw, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return raw, nil
}

// decode reads a versioned envelope, falling back to the unversioned layout.
func decode[T any](raw []byte) (T, int, error) {
	var zero T

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Version > 0 && len(env.Data) > 0 {
		if env.Version > SchemaVersion {
			return zero, env.Version, fmt.Errorf("%w: %d", model.ErrUnsupportedVersion, env.Version)
		}

		var value T
		if err := json.Unmarshal(env.Data, &value); err != nil {
			return zero, env.Version, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		return value, env.Version, nil
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, 0, fmt.Errorf("failed to unmarshal legacy record: %w", err)
	}

	return value, 0, nil
}
