package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Unix(1_700_000_000, 0)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec([]byte("test-secret"))
	require.NoError(t, err)
	return c
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec(nil)
	assert.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	claims := NewClaims("a@example.com", "uid-1", "rt-1", Expiration(testNow, time.Minute))

	tok, err := c.Sign(claims)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(tok, "."))

	got, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "uid-1", got.UserID)
	assert.Equal(t, "rt-1", got.RefreshToken)
	assert.Equal(t, testNow.Unix()+60, got.ExpiresAt.Unix())
}

func TestSign_Deterministic(t *testing.T) {
	c := newTestCodec(t)
	claims := NewClaims("a@example.com", "uid-1", "rt-1", testNow)

	a, err := c.Sign(claims)
	require.NoError(t, err)
	b, err := c.Sign(claims)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSign_PayloadFieldNames(t *testing.T) {
	c := newTestCodec(t)
	tok, err := c.Sign(NewClaims("a@example.com", "uid-1", "rt-1", testNow))
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(tok, ".")[1])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"email":"a@example.com","user_id":"uid-1","refresh_token":"rt-1","exp":1700000000}`,
		string(payload))
}

func TestVerify_ExpiredTokenStillVerifies(t *testing.T) {
	c := newTestCodec(t)
	tok, err := c.Sign(NewClaims("a@example.com", "uid-1", "rt-1", testNow.Add(-time.Second)))
	require.NoError(t, err)

	claims, err := c.Verify(tok)
	require.NoError(t, err, "verify checks the signature only")
	assert.True(t, claims.Expired(testNow))
	assert.Equal(t, int64(-1), claims.ExpiresIn(testNow))
}

func TestVerify_WrongSecret(t *testing.T) {
	c := newTestCodec(t)
	other, err := NewCodec([]byte("other-secret"))
	require.NoError(t, err)

	tok, err := other.Sign(NewClaims("a@example.com", "uid-1", "rt-1", testNow))
	require.NoError(t, err)

	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	c := newTestCodec(t)
	tok, err := c.Sign(NewClaims("a@example.com", "uid-1", "rt-1", testNow))
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	parts[1] = base64.RawURLEncoding.EncodeToString(
		[]byte(`{"email":"b@example.com","user_id":"uid-1","refresh_token":"rt-1","exp":1700000000}`))

	_, err = c.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	c := newTestCodec(t)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone,
		NewClaims("a@example.com", "uid-1", "rt-1", testNow)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(none)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512,
		NewClaims("a@example.com", "uid-1", "rt-1", testNow)).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = c.Verify(hs512)
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestVerify_Malformed(t *testing.T) {
	c := newTestCodec(t)
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.???.***"} {
		_, err := c.Verify(tok)
		assert.ErrorIs(t, err, common.ErrMalformed, "token %q", tok)
	}
}

func TestDecode_IgnoresSignature(t *testing.T) {
	other, err := NewCodec([]byte("other-secret"))
	require.NoError(t, err)
	tok, err := other.Sign(NewClaims("a@example.com", "uid-1", "rt-1", testNow))
	require.NoError(t, err)

	claims, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)

	_, err = Decode("not-a-token")
	assert.ErrorIs(t, err, common.ErrMalformed)
}

func TestClaims_Expiry(t *testing.T) {
	c := NewClaims("a@example.com", "uid", "rt", testNow)
	assert.True(t, c.Expired(testNow), "exp == now is expired")
	assert.False(t, c.Expired(testNow.Add(-time.Second)))
	assert.Equal(t, int64(5), c.ExpiresIn(testNow.Add(-5*time.Second)))

	var empty Claims
	assert.True(t, empty.Expired(testNow))
}

func TestExpiration_WholeSeconds(t *testing.T) {
	now := testNow.Add(750 * time.Millisecond)
	assert.Equal(t, testNow.Unix()+60, Expiration(now, time.Minute).Unix())
}
