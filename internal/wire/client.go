package wire

import (
	"context"

	"google.golang.org/grpc"
)

// SessionServiceClient calls SessionService over an existing connection.
type SessionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSessionServiceClient(cc grpc.ClientConnInterface) *SessionServiceClient {
	return &SessionServiceClient{cc: cc}
}

func (c *SessionServiceClient) CreateAccount(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*IdentityTokenResponse, error) {
	out := new(IdentityTokenResponse)
	if err := c.invoke(ctx, MethodCreateAccount, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionServiceClient) SignIn(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*IdentityTokenResponse, error) {
	out := new(IdentityTokenResponse)
	if err := c.invoke(ctx, MethodSignIn, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionServiceClient) CreateSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	out := new(SessionResponse)
	if err := c.invoke(ctx, MethodCreateSession, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionServiceClient) RefreshSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	out := new(SessionResponse)
	if err := c.invoke(ctx, MethodRefreshSession, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionServiceClient) GetProduct(ctx context.Context, in *ProductRequest, opts ...grpc.CallOption) (*ProductResponse, error) {
	out := new(ProductResponse)
	if err := c.invoke(ctx, MethodGetProduct, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.invoke(ctx, MethodPing, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
