// Package accounts persists accounts together with the refresh tokens issued
// to them.
//
// Every backend keeps a refresh-token to email index updated in the same
// atomic step as the append, so FindByRefreshToken never scans accounts and
// concurrent appends to one account are all retained.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// Repository is the account store contract.
//
// Create fails with common.ErrorAlreadyExists when the email or one of the
// initial refresh tokens is already stored. Get and FindByRefreshToken fail
// with common.ErrorNotFound. AppendRefreshToken fails with
// common.ErrorNotFound for an unknown email and common.ErrorAlreadyExists
// for a token that already belongs to some account.
type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, email string) (*models.Account, error)
	AppendRefreshToken(ctx context.Context, email, token string) error
	FindByRefreshToken(ctx context.Context, token string) (*models.Account, error)
}
