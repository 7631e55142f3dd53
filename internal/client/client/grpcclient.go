package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *wire.SessionServiceClient
}

func withBearer(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(wire.AuthorizationKey, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// NewGRPCClient connects lazily to endpointURL over plaintext. Extra dial
// options are appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{
		endpointURL: endpointURL,
		conn:        conn,
		client:      wire.NewSessionServiceClient(conn),
	}, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) CreateAccount(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.CreateAccount(ctx, &wire.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.IDToken, nil
}

func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.SignIn(ctx, &wire.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.IDToken, nil
}

func (s *GRPCClient) CreateSession(ctx context.Context, idToken string) (*models.Session, error) {
	resp, err := s.client.CreateSession(withBearer(ctx, idToken), &wire.SessionRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.Session{IDToken: resp.IDToken, RefreshToken: resp.RefreshToken}, nil
}

func (s *GRPCClient) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	resp, err := s.client.RefreshSession(withBearer(ctx, refreshToken), &wire.SessionRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.Session{IDToken: resp.IDToken, RefreshToken: resp.RefreshToken}, nil
}

func (s *GRPCClient) GetProduct(ctx context.Context, idToken, id string) (*models.Product, error) {
	resp, err := s.client.GetProduct(withBearer(ctx, idToken), &wire.ProductRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.Product{Title: resp.Title, CurrentPrice: resp.CurrentPrice, Image: resp.Image}, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &wire.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.AlreadyExists:
		return common.ErrEmailTaken
	case codes.InvalidArgument:
		return ErrInvalidInput
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
