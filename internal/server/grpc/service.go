package grpc

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"google.golang.org/grpc"
)

// SessionServiceServer is the server API for sessionkeeper.v1.SessionService.
type SessionServiceServer interface {
	CreateAccount(context.Context, *wire.CredentialsRequest) (*wire.IdentityTokenResponse, error)
	SignIn(context.Context, *wire.CredentialsRequest) (*wire.IdentityTokenResponse, error)
	CreateSession(context.Context, *wire.SessionRequest) (*wire.SessionResponse, error)
	RefreshSession(context.Context, *wire.SessionRequest) (*wire.SessionResponse, error)
	GetProduct(context.Context, *wire.ProductRequest) (*wire.ProductResponse, error)
	Ping(context.Context, *wire.PingRequest) (*wire.PingResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: wire.ServiceName,
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: unary(wire.MethodCreateAccount, SessionServiceServer.CreateAccount)},
		{MethodName: "SignIn", Handler: unary(wire.MethodSignIn, SessionServiceServer.SignIn)},
		{MethodName: "CreateSession", Handler: unary(wire.MethodCreateSession, SessionServiceServer.CreateSession)},
		{MethodName: "RefreshSession", Handler: unary(wire.MethodRefreshSession, SessionServiceServer.RefreshSession)},
		{MethodName: "GetProduct", Handler: unary(wire.MethodGetProduct, SessionServiceServer.GetProduct)},
		{MethodName: "Ping", Handler: unary(wire.MethodPing, SessionServiceServer.Ping)},
	},
	Streams: []grpc.StreamDesc{},
}

// unary adapts a typed method to the grpc method handler signature,
// decoding the request and running it through the interceptor chain.
func unary[Req, Resp any](fullMethod string, call func(SessionServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SessionServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
