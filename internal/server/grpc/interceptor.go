package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/tokens"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// protectedMethods need a valid identity token in the authorization metadata.
var protectedMethods = map[string]bool{
	wire.MethodGetProduct: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if protectedMethods[info.FullMethod] {
		claims, err := s.gate.Guard(ctx, authorizationFromContext(ctx))
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, unauthorizedMessage)
		}
		ctx = context.WithValue(ctx, claimsKey, claims)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"latency", time.Since(start).String(),
	)
	return resp, err
}

func claimsFromContext(ctx context.Context) (*tokens.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*tokens.Claims)
	return c, ok
}
