package client

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/models"
)

type Client interface {
	Close() error
	CreateAccount(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	CreateSession(ctx context.Context, idToken string) (*models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	GetProduct(ctx context.Context, idToken, id string) (*models.Product, error)
	Ping(ctx context.Context) error
}
