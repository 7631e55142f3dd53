package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Handy for tests and
// single-instance demos; contents are lost on restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	byToken  map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*models.Account),
		byToken:  make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Email]; ok {
		return common.ErrorAlreadyExists
	}
	for _, t := range account.RefreshTokens {
		if _, ok := r.byToken[t]; ok {
			return common.ErrorAlreadyExists
		}
	}

	stored := account.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.accounts[stored.Email] = stored
	for _, t := range stored.RefreshTokens {
		r.byToken[t] = stored.Email
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a.Clone(), nil
}

func (r *MemoryRepository) AppendRefreshToken(_ context.Context, email, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[email]
	if !ok {
		return common.ErrorNotFound
	}
	if _, taken := r.byToken[token]; taken {
		return common.ErrorAlreadyExists
	}

	a.RefreshTokens = append(a.RefreshTokens, token)
	r.byToken[token] = email
	return nil
}

func (r *MemoryRepository) FindByRefreshToken(_ context.Context, token string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.accounts[email].Clone(), nil
}
