package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// profileIDKey is the metadata key holding the authenticated profile ID.
const (
	profileIDKey string = "x-m2m-profile-id"
)

// Manager stores the authenticated profile ID in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetProfileIDToContext returns a context whose incoming metadata carries
// profileID, replacing any value the client sent under the same key.
func (m *Manager) SetProfileIDToContext(ctx context.Context, profileID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{profileIDKey: profileID.String()})
	} else {
		md = md.Copy()
		md.Set(profileIDKey, profileID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetProfileIDFromContext reads the profile ID set by SetProfileIDToContext.
func (m *Manager) GetProfileIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	values := md.Get(profileIDKey)
	if len(values) == 0 {
		return uuid.Nil, false
	}

	profileID, err := uuid.Parse(values[0])
	if err != nil {
		return uuid.Nil, false
	}

	return profileID, true
}
