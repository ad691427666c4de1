package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	_ "github.com/dtroode/m2m-server/internal/api/grpc/codec"
	"github.com/dtroode/m2m-server/internal/api/grpc/handler"
	"github.com/dtroode/m2m-server/internal/api/grpc/middleware"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// Handlers groups the services exposed by the app API.
type Handlers struct {
	Auth      handler.AuthServer
	Profile   handler.ProfileServer
	Ledger    handler.LedgerServer
	Checklist handler.ChecklistServer
}

// Router builds the gRPC server with its interceptor chain.
type Router struct {
	handlers       Handlers
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	handlers Handlers,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		handlers:       handlers,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// authSkip selects the methods that require a session token. The sign-in
// service is reachable without one.
func authSkip(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/"+handler.AuthServiceName+"/")
}

// Register registers all gRPC services and middleware.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)
	onPanic := recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		r.logger.Error("gRPC handler panicked", "panic", p)
		return status.Error(codes.Internal, "internal server error")
	})

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(onPanic),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authSkip),
			),
		),
	)

	r.registerRoutes(s)

	return s
}

func (r *Router) registerRoutes(server *grpc.Server) {
	if r.handlers.Auth != nil {
		handler.RegisterAuthServer(server, r.handlers.Auth)
	}
	if r.handlers.Profile != nil {
		handler.RegisterProfileServer(server, r.handlers.Profile)
	}
	if r.handlers.Ledger != nil {
		handler.RegisterLedgerServer(server, r.handlers.Ledger)
	}
	if r.handlers.Checklist != nil {
		handler.RegisterChecklistServer(server, r.handlers.Checklist)
	}
}
