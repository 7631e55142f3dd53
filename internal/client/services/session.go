// Package services contains application services for the sessionkeeper client.
// SessionService drives the sign-in lifecycle: it signs up or signs in,
// exchanges the identity token for a session, keeps the session in the local
// store and transparently refreshes it once when a protected call is refused.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/client"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/repositories/session"
	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/tokens"
)

// SessionStatus describes the locally stored session. ExpiresIn is
// meaningful only while SignedIn; it is negative once Expired.
type SessionStatus struct {
	SignedIn  bool
	Email     string
	UserID    string
	ExpiresIn int64
	Expired   bool
}

// SessionService defines the session operations the CLI exposes.
type SessionService interface {
	Register(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) error
	CallProduct(ctx context.Context, id string) (*models.Product, error)
	SignOut(ctx context.Context) error
	Status(ctx context.Context) (*SessionStatus, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Option func(*sessionService)

// WithClock overrides the time source used by Status.
func WithClock(now func() time.Time) Option {
	return func(s *sessionService) { s.now = now }
}

type sessionService struct {
	client client.Client
	repo   session.Repository
	now    func() time.Time
}

func NewSessionService(c client.Client, repo session.Repository, opts ...Option) SessionService {
	s := &sessionService{client: c, repo: repo, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register creates the account and signs straight in with it.
func (s *sessionService) Register(ctx context.Context, email, password string) error {
	idToken, err := s.client.CreateAccount(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, idToken)
}

func (s *sessionService) SignIn(ctx context.Context, email, password string) error {
	idToken, err := s.client.SignIn(ctx, email, password)
	if errors.Is(err, client.ErrUnauthorized) {
		return common.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	return s.establish(ctx, idToken)
}

// establish trades a fresh identity token for a session and persists it.
func (s *sessionService) establish(ctx context.Context, idToken string) error {
	sess, err := s.client.CreateSession(ctx, idToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return err
	}
	return nil
}

// CallProduct fetches a protected product. A refused identity token is
// refreshed once with the stored refresh token and the call retried; if that
// fails too the local session is dropped and ErrSessionInvalid returned.
func (s *sessionService) CallProduct(ctx context.Context, id string) (*models.Product, error) {
	sess, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.client.GetProduct(ctx, sess.IDToken, id)
	if !errors.Is(err, client.ErrUnauthorized) {
		return p, err
	}

	refreshed, err := s.client.RefreshSession(ctx, sess.RefreshToken)
	if errors.Is(err, client.ErrUnauthorized) {
		return nil, s.invalidate(ctx)
	}
	if err != nil {
		return nil, err
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = sess.RefreshToken
	}
	if err := s.repo.Save(ctx, refreshed); err != nil {
		return nil, err
	}

	p, err = s.client.GetProduct(ctx, refreshed.IDToken, id)
	if errors.Is(err, client.ErrUnauthorized) {
		return nil, s.invalidate(ctx)
	}
	return p, err
}

func (s *sessionService) invalidate(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return errors.Join(client.ErrSessionInvalid, err)
	}
	return client.ErrSessionInvalid
}

// SignOut forgets the local session. Nothing is revoked on the server.
func (s *sessionService) SignOut(ctx context.Context) error {
	return s.repo.Delete(ctx)
}

func (s *sessionService) Status(ctx context.Context) (*SessionStatus, error) {
	sess, err := s.repo.Load(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return &SessionStatus{}, nil
	}
	if err != nil {
		return nil, err
	}

	claims, err := tokens.Decode(sess.IDToken)
	if err != nil {
		return nil, fmt.Errorf("stored identity token: %w", err)
	}

	now := s.now()
	return &SessionStatus{
		SignedIn:  true,
		Email:     claims.Email,
		UserID:    claims.UserID,
		ExpiresIn: claims.ExpiresIn(now),
		Expired:   claims.Expired(now),
	}, nil
}

func (s *sessionService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *sessionService) Close(ctx context.Context) error {
	return s.client.Close()
}

func (s *sessionService) load(ctx context.Context) (*models.Session, error) {
	sess, err := s.repo.Load(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, client.ErrNotSignedIn
	}
	return sess, err
}
