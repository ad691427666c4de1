package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// TokenService resolves the profile ID behind a session token.
type TokenService interface {
	GetProfileID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the profile ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the session token and
// returns a context carrying the profile ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		}
	}

	profileID, authErr := m.authenticate(ctx, tokenString)
	if authErr != nil {
		m.logger.Debug("Authenticate middleware: request rejected", "error", authErr.Error())
		return nil, status.Error(codes.Unauthenticated, authErr.Error())
	}

	return m.contextManager.SetProfileIDToContext(ctx, profileID), nil
}

func (m *Authenticate) authenticate(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("%w: missing authorization token", model.ErrUnauthenticated)
	}

	profileID, err := m.tokenService.GetProfileID(ctx, tokenString)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid authorization token", model.ErrUnauthenticated)
	}

	if profileID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: invalid authorization token", model.ErrUnauthenticated)
	}

	return profileID, nil
}
