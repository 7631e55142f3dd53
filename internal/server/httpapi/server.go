// Package httpapi exposes the credential service over HTTP/JSON using gin.
//
//	POST /v1/accounts         {email,password}          201 {payload:{id_token}}
//	POST /v1/signin           {email,password}          201 {payload:{id_token}}
//	POST /v1/session          Bearer <id token>         201 {payload:{id_token,refresh_token,expires_in}}
//	POST /v1/session/refresh  Bearer <refresh token>    201 {payload:{id_token,refresh_token,expires_in}}
//	GET  /v1/product/:id      Bearer <id token>         200 product
//	GET  /v1/ping                                       200 {status:"OK"}
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/gate"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/tokens"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// CredentialService is the subset of services.CredentialService the HTTP
// layer calls.
type CredentialService interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	CreateSession(ctx context.Context, idToken string) (*services.SessionTokens, error)
	RefreshSession(ctx context.Context, refreshToken string) (*services.SessionTokens, error)
	Authorize(ctx context.Context, idToken string) (*tokens.Claims, error)
}

type Server struct {
	address string
	svc     CredentialService
	logger  logging.Logger
	engine  *gin.Engine
}

func NewServer(address string, l logging.Logger, svc CredentialService) *Server {
	s := &Server{
		address: address,
		svc:     svc,
		logger:  l.With("module", "http_server"),
	}
	s.engine = s.routes(gate.New(svc, l))
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(g *gate.Gate) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	v1 := r.Group("/v1")
	v1.POST("/accounts", s.createAccount)
	v1.POST("/signin", s.signIn)
	v1.POST("/session", s.createSession)
	v1.POST("/session/refresh", s.refreshSession)
	v1.GET("/product/:id", g.Middleware(), s.getProduct)
	v1.GET("/ping", s.ping)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}
