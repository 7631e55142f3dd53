// Package grpc serves sessionkeeper.v1.SessionService. Messages are the
// plain structs from internal/wire encoded with its JSON codec.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/gate"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/tokens"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CredentialService is the subset of services.CredentialService the gRPC
// layer calls.
type CredentialService interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	CreateSession(ctx context.Context, idToken string) (*services.SessionTokens, error)
	RefreshSession(ctx context.Context, refreshToken string) (*services.SessionTokens, error)
	Authorize(ctx context.Context, idToken string) (*tokens.Claims, error)
}

type GRPCServer struct {
	address string
	svc     CredentialService
	gate    *gate.Gate
	logger  logging.Logger
	health  *health.Server
}

func NewGRPCServer(address string, l logging.Logger, svc CredentialService) *GRPCServer {
	return &GRPCServer{
		address: address,
		svc:     svc,
		gate:    gate.New(svc, l),
		logger:  l.With("module", "grpc_server"),
		health:  health.NewServer(),
	}
}

// NewServer builds a *grpc.Server with the interceptors installed, the
// session service registered and grpc.health.v1 reporting it as serving.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&serviceDesc, s)

	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(wire.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	return srv.Serve(listen)
}
