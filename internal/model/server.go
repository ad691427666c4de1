package model

import (
	"context"
	"net"
)

// SecurityLayer opens listeners, optionally wrapping them in TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running network endpoint (gRPC API or mail proxy).
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
