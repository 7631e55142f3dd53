// Package services contains server-side business logic. CredentialService
// implements the account and session lifecycle: sign-up, sign-in, session
// establishment, identity token refresh and request authorization.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/cryptox"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/tokens"
	"github.com/google/uuid"
)

// SessionTokens is what a client persists after establishing or refreshing
// a session.
type SessionTokens struct {
	IDToken      string
	RefreshToken string
	ExpiresIn    int64
}

// Option customises a CredentialService.
type Option func(*CredentialService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *CredentialService) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l logging.Logger) Option {
	return func(s *CredentialService) { s.log = l.With("module", "credentials") }
}

// WithRefreshTokenGenerator replaces the crypto/rand refresh token source.
func WithRefreshTokenGenerator(gen func() (string, error)) Option {
	return func(s *CredentialService) { s.newRefreshToken = gen }
}

// CredentialService issues and checks credentials. It is safe for
// concurrent use; all shared state lives in the account store.
type CredentialService struct {
	accounts accounts.Repository
	codec    *tokens.Codec
	hasher   cryptox.PasswordHasher
	ttl      time.Duration

	now             func() time.Time
	newRefreshToken func() (string, error)
	log             logging.Logger

	// dummyHash is verified against when the account does not exist so
	// unknown emails cost the same as wrong passwords.
	dummyHash string
}

// NewCredentialService wires a service. ttl is the identity token lifetime.
func NewCredentialService(repo accounts.Repository, codec *tokens.Codec, hasher cryptox.PasswordHasher, ttl time.Duration, opts ...Option) *CredentialService {
	s := &CredentialService{
		accounts: repo,
		codec:    codec,
		hasher:   hasher,
		ttl:      ttl,
		now:      time.Now,
		newRefreshToken: func() (string, error) {
			return common.MakeRandHexString(common.RefreshTokenSize)
		},
		log: logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}

	if h, err := hasher.Hash("not-a-real-password"); err == nil {
		s.dummyHash = h
	}
	return s
}

// CreateAccount registers email with password and returns an identity token
// for the new account.
func (s *CredentialService) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "hash password", "error", err)
		return "", common.ErrorInternal
	}

	refresh, err := s.newRefreshToken()
	if err != nil {
		s.log.Error(ctx, "generate refresh token", "error", err)
		return "", common.ErrorInternal
	}

	account := &models.Account{
		Email:         email,
		PasswordHash:  hash,
		UserID:        uuid.NewString(),
		RefreshTokens: []string{refresh},
		CreatedAt:     s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", common.ErrEmailTaken
		}
		s.log.Error(ctx, "create account", "email", email, "error", err)
		return "", common.ErrorInternal
	}

	s.log.Info(ctx, "account created", "email", email, "user_id", account.UserID)
	return s.mint(account, refresh)
}

// SignIn checks the password and returns a fresh identity token. Each
// sign-in adds a refresh token; earlier ones stay valid.
func (s *CredentialService) SignIn(ctx context.Context, email, password string) (string, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return "", err
	}

	account, err := s.accounts.Get(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "load account", "email", email, "error", err)
			return "", common.ErrorInternal
		}
		if s.dummyHash != "" {
			_, _ = s.hasher.Verify(password, s.dummyHash)
		}
		s.log.Info(ctx, "sign-in rejected", "email", email)
		return "", common.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "verify password", "email", email, "error", err)
		return "", common.ErrorInternal
	}
	if !ok {
		s.log.Info(ctx, "sign-in rejected", "email", email)
		return "", common.ErrInvalidCredentials
	}

	refresh, err := s.issueRefreshToken(ctx, email)
	if err != nil {
		return "", common.ErrorInternal
	}
	return s.mint(account, refresh)
}

// CreateSession exchanges a valid identity token for a new refresh token.
// The identity token is returned unchanged.
func (s *CredentialService) CreateSession(ctx context.Context, idToken string) (*SessionTokens, error) {
	claims, err := s.Authorize(ctx, idToken)
	if err != nil {
		return nil, err
	}

	refresh, err := s.issueRefreshToken(ctx, claims.Email)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	return &SessionTokens{
		IDToken:      idToken,
		RefreshToken: refresh,
		ExpiresIn:    claims.ExpiresIn(s.now()),
	}, nil
}

// RefreshSession mints a new identity token for the owner of refreshToken.
// The refresh token is not rotated: the same value is returned and stays
// valid.
func (s *CredentialService) RefreshSession(ctx context.Context, refreshToken string) (*SessionTokens, error) {
	if refreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	account, err := s.accounts.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "find refresh token", "error", err)
		}
		return nil, common.ErrorUnauthorized
	}

	idToken, err := s.mint(account, refreshToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	s.log.Info(ctx, "session refreshed", "email", account.Email)
	return &SessionTokens{
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.ttl / time.Second),
	}, nil
}

// Authorize verifies idToken, rejects it once expired and requires the
// account it names to exist. Every failure is reported as
// common.ErrorUnauthorized.
func (s *CredentialService) Authorize(ctx context.Context, idToken string) (*tokens.Claims, error) {
	claims, err := s.codec.Verify(idToken)
	if err != nil {
		s.log.Debug(ctx, "identity token rejected", "error", err)
		return nil, common.ErrorUnauthorized
	}
	if claims.Expired(s.now()) {
		s.log.Debug(ctx, "identity token rejected", "error", common.ErrTokenExpired, "email", claims.Email)
		return nil, common.ErrorUnauthorized
	}

	if _, err := s.accounts.Get(ctx, claims.Email); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "load account", "email", claims.Email, "error", err)
		}
		s.log.Debug(ctx, "identity token rejected", "error", "unknown account", "email", claims.Email)
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

func (s *CredentialService) issueRefreshToken(ctx context.Context, email string) (string, error) {
	refresh, err := s.newRefreshToken()
	if err != nil {
		s.log.Error(ctx, "generate refresh token", "error", err)
		return "", err
	}
	if err := s.accounts.AppendRefreshToken(ctx, email, refresh); err != nil {
		s.log.Error(ctx, "append refresh token", "email", email, "error", err)
		return "", err
	}
	return refresh, nil
}

func (s *CredentialService) mint(account *models.Account, refresh string) (string, error) {
	exp := tokens.Expiration(s.now(), s.ttl)
	tok, err := s.codec.Sign(tokens.NewClaims(account.Email, account.UserID, refresh, exp))
	if err != nil {
		return "", common.ErrorInternal
	}
	return tok, nil
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", common.ErrorValidation
	}
	return email, nil
}
