package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/gate"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPayload struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    *int64 `json:"expires_in,omitempty"`
}

type envelope struct {
	Payload tokenPayload `json:"payload"`
	Status  int          `json:"status"`
}

func (s *Server) createAccount(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	idToken, err := s.svc.CreateAccount(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.credentialsError(c, err)
		return
	}
	writeTokens(c, tokenPayload{IDToken: idToken})
}

func (s *Server) signIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	idToken, err := s.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.credentialsError(c, err)
		return
	}
	writeTokens(c, tokenPayload{IDToken: idToken})
}

func (s *Server) createSession(c *gin.Context) {
	idToken, ok := gate.BearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if !ok {
		unauthorized(c)
		return
	}

	sess, err := s.svc.CreateSession(c.Request.Context(), idToken)
	if err != nil {
		unauthorized(c)
		return
	}
	writeSession(c, sess)
}

func (s *Server) refreshSession(c *gin.Context) {
	refresh, ok := gate.BearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if !ok {
		unauthorized(c)
		return
	}

	sess, err := s.svc.RefreshSession(c.Request.Context(), refresh)
	if err != nil {
		unauthorized(c)
		return
	}
	writeSession(c, sess)
}

func (s *Server) getProduct(c *gin.Context) {
	c.JSON(http.StatusOK, models.DemoProduct(c.Param("id")))
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) credentialsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(c, http.StatusBadRequest, "Email and password are required.")
	case errors.Is(err, common.ErrEmailTaken):
		writeError(c, http.StatusConflict, common.ErrEmailTaken.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, common.ErrInvalidCredentials.Error())
	default:
		s.logger.Error(c.Request.Context(), "credentials request failed", "error", err)
		writeError(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeTokens(c *gin.Context, p tokenPayload) {
	c.JSON(http.StatusCreated, envelope{Payload: p, Status: http.StatusCreated})
}

func writeSession(c *gin.Context, sess *services.SessionTokens) {
	expiresIn := sess.ExpiresIn
	writeTokens(c, tokenPayload{
		IDToken:      sess.IDToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    &expiresIn,
	})
}

func writeError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gate.ErrorBody{Code: code, Message: message})
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gate.UnauthorizedBody)
}
