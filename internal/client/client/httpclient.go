package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/netx"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenEnvelope struct {
	Payload struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	} `json:"payload"`
}

// HTTPClient calls the JSON/HTTP API rooted at baseURL (e.g.
// "http://127.0.0.1:8080").
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) CreateAccount(ctx context.Context, email, password string) (string, error) {
	var env tokenEnvelope
	if err := c.do(ctx, http.MethodPost, "/v1/accounts", "", credentials{email, password}, &env); err != nil {
		return "", err
	}
	return env.Payload.IDToken, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (string, error) {
	var env tokenEnvelope
	if err := c.do(ctx, http.MethodPost, "/v1/signin", "", credentials{email, password}, &env); err != nil {
		return "", err
	}
	return env.Payload.IDToken, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, idToken string) (*models.Session, error) {
	return c.session(ctx, "/v1/session", idToken)
}

func (c *HTTPClient) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	return c.session(ctx, "/v1/session/refresh", refreshToken)
}

func (c *HTTPClient) session(ctx context.Context, path, bearer string) (*models.Session, error) {
	var env tokenEnvelope
	if err := c.do(ctx, http.MethodPost, path, bearer, nil, &env); err != nil {
		return nil, err
	}
	return &models.Session{IDToken: env.Payload.IDToken, RefreshToken: env.Payload.RefreshToken}, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, idToken, id string) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, "/v1/product/"+url.PathEscape(id), idToken, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/ping", "", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, bearer string, in, out any) error {
	return mapHTTPError(netx.DoJSON(ctx, c.http, method, c.baseURL+path, bearer, in, out))
}

func mapHTTPError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch se.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusConflict:
		return common.ErrEmailTaken
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return fmt.Errorf("http error: %w", err)
	}
}
