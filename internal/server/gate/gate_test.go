package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/cryptox"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/tokens"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	gate  *Gate
	codec *tokens.Codec
	now   time.Time
}

// newTestEnv guards with a real credential service over the memory store,
// holding the single account a@example.com.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	codec, err := tokens.NewCodec([]byte("test-secret"))
	require.NoError(t, err)
	hasher, err := cryptox.NewArgon2Hasher(cryptox.Argon2Params{
		Memory: 64, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	require.NoError(t, err)
	now := time.Unix(1_700_000_000, 0)

	repo := accounts.NewMemoryRepository()
	require.NoError(t, repo.Create(context.Background(), &models.Account{
		Email:         "a@example.com",
		PasswordHash:  "unused",
		UserID:        "uid-1",
		RefreshTokens: []string{"rt-1"},
	}))

	svc := services.NewCredentialService(repo, codec, hasher, time.Minute,
		services.WithClock(func() time.Time { return now }))
	return &testEnv{gate: New(svc, logging.Nop()), codec: codec, now: now}
}

func (e *testEnv) sign(t *testing.T, email string, ttl time.Duration) string {
	t.Helper()
	tok, err := e.codec.Sign(tokens.NewClaims(email, "uid-1", "rt-1", e.now.Add(ttl)))
	require.NoError(t, err)
	return tok
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer    ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.want, got, "header %q", tt.header)
	}
}

func TestGuard_Accepts(t *testing.T) {
	e := newTestEnv(t)

	claims, err := e.gate.Guard(context.Background(), "Bearer "+e.sign(t, "a@example.com", time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestGuard_RejectionsAreIndistinguishable(t *testing.T) {
	e := newTestEnv(t)

	other, err := tokens.NewCodec([]byte("other"))
	require.NoError(t, err)
	forged, err := other.Sign(tokens.NewClaims("a@example.com", "uid-1", "rt-1", e.now.Add(time.Minute)))
	require.NoError(t, err)

	cases := map[string]string{
		"missing":         "",
		"not bearer":      "Token abc",
		"malformed":       "Bearer not-a-jwt",
		"bad signature":   "Bearer " + forged,
		"expired":         "Bearer " + e.sign(t, "a@example.com", -time.Second),
		"unknown account": "Bearer " + e.sign(t, "ghost@example.com", time.Minute),
	}

	for name, header := range cases {
		claims, err := e.gate.Guard(context.Background(), header)
		assert.Nil(t, claims, name)
		assert.Equal(t, common.ErrorUnauthorized, err, name)
	}
}

func newRouter(g *Gate) *gin.Engine {
	r := gin.New()
	r.GET("/protected", g.Middleware(), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return r
}

func TestMiddleware_PassesClaims(t *testing.T) {
	e := newTestEnv(t)
	router := newRouter(e.gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+e.sign(t, "a@example.com", time.Minute))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"a@example.com"}`, w.Body.String())
}

func TestMiddleware_UniformUnauthorized(t *testing.T) {
	e := newTestEnv(t)
	router := newRouter(e.gate)

	headers := []string{
		"",
		"Bearer garbage",
		"Bearer " + e.sign(t, "ghost@example.com", time.Minute),
	}

	var bodies []string
	for _, h := range headers {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		bodies = append(bodies, w.Body.String())
	}

	assert.JSONEq(t, `{"code":401,"message":"Unauthorized"}`, bodies[0])
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[0], bodies[2])
}
