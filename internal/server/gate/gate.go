// Package gate guards protected resources. Every rejection looks the same to
// the caller, whether the bearer material was missing, malformed, forged,
// expired or issued for an unknown account.
package gate

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/tokens"
	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding *tokens.Claims after Middleware
// lets a request through.
const ClaimsKey = "claims"

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// UnauthorizedBody is the only 401 body the gate ever sends.
var UnauthorizedBody = ErrorBody{Code: http.StatusUnauthorized, Message: "Unauthorized"}

// Authorizer checks an identity token, including its expiry.
type Authorizer interface {
	Authorize(ctx context.Context, idToken string) (*tokens.Claims, error)
}

type Gate struct {
	auth Authorizer
	log  logging.Logger
}

func New(auth Authorizer, l logging.Logger) *Gate {
	return &Gate{auth: auth, log: l.With("module", "gate")}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < len(common.BearerPrefix) ||
		!strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

// Guard authorizes a request from its authorization header value. Any
// failure is common.ErrorUnauthorized with no cause attached.
func (g *Gate) Guard(ctx context.Context, authorization string) (*tokens.Claims, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		g.log.Debug(ctx, "request rejected", "reason", "no bearer token")
		return nil, common.ErrorUnauthorized
	}

	claims, err := g.auth.Authorize(ctx, token)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

// Middleware aborts with 401 and UnauthorizedBody unless Guard accepts the
// request's Authorization header.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := g.Guard(c.Request.Context(), c.GetHeader(common.AuthorizationHeaderName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthorizedBody)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Middleware.
func ClaimsFrom(c *gin.Context) (*tokens.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*tokens.Claims)
	return claims, ok
}
