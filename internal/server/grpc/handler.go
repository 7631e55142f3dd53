package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/gate"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const unauthorizedMessage = "Unauthorized"

func (s *GRPCServer) CreateAccount(ctx context.Context, req *wire.CredentialsRequest) (*wire.IdentityTokenResponse, error) {
	idToken, err := s.svc.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.credentialsStatus(ctx, err)
	}
	return &wire.IdentityTokenResponse{IDToken: idToken}, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *wire.CredentialsRequest) (*wire.IdentityTokenResponse, error) {
	idToken, err := s.svc.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.credentialsStatus(ctx, err)
	}
	return &wire.IdentityTokenResponse{IDToken: idToken}, nil
}

func (s *GRPCServer) CreateSession(ctx context.Context, _ *wire.SessionRequest) (*wire.SessionResponse, error) {
	idToken, ok := gate.BearerToken(authorizationFromContext(ctx))
	if !ok {
		return nil, status.Error(codes.Unauthenticated, unauthorizedMessage)
	}

	sess, err := s.svc.CreateSession(ctx, idToken)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, unauthorizedMessage)
	}
	return sessionResponse(sess), nil
}

func (s *GRPCServer) RefreshSession(ctx context.Context, _ *wire.SessionRequest) (*wire.SessionResponse, error) {
	refresh, ok := gate.BearerToken(authorizationFromContext(ctx))
	if !ok {
		return nil, status.Error(codes.Unauthenticated, unauthorizedMessage)
	}

	sess, err := s.svc.RefreshSession(ctx, refresh)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, unauthorizedMessage)
	}
	return sessionResponse(sess), nil
}

// GetProduct is only reached once accessTokenInterceptor has accepted the
// caller's identity token.
func (s *GRPCServer) GetProduct(ctx context.Context, req *wire.ProductRequest) (*wire.ProductResponse, error) {
	if _, ok := claimsFromContext(ctx); !ok {
		return nil, status.Error(codes.Unauthenticated, unauthorizedMessage)
	}

	p := models.DemoProduct(req.ID)
	return &wire.ProductResponse{Title: p.Title, CurrentPrice: p.CurrentPrice, Image: p.Image}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *wire.PingRequest) (*wire.PingResponse, error) {
	return &wire.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) credentialsStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, "Email and password are required.")
	case errors.Is(err, common.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, common.ErrEmailTaken.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, unauthorizedMessage)
	default:
		s.logger.Error(ctx, "credentials request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func sessionResponse(sess *services.SessionTokens) *wire.SessionResponse {
	return &wire.SessionResponse{
		IDToken:      sess.IDToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    sess.ExpiresIn,
	}
}

func authorizationFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(wire.AuthorizationKey); len(values) > 0 {
		return values[0]
	}
	return ""
}
