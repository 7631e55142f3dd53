// Package session persists the client's single session record.
package session

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/models"
)

// Repository stores at most one session. Save replaces it wholesale, Load
// returns common.ErrorNotFound when signed out and Delete is a no-op when
// nothing is stored.
type Repository interface {
	Save(ctx context.Context, s *models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Delete(ctx context.Context) error
}
