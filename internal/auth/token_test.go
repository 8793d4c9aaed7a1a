package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedIssuer(secret string, at time.Time) *TokenIssuer {
	t := NewTokenIssuer(secret, TokenTTL)
	t.now = func() time.Time { return at }
	return t
}

func TestIssue_ExpiresOneHourAfterIssuance(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer("s3cret", at)

	token, exp, err := issuer.Issue("64f0c0ffee", "a@shop.co", "user")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, TokenTTL)
	assert.Equal(t, at.Add(time.Hour), exp)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c0ffee", claims.Subject)
	assert.Equal(t, "a@shop.co", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, at.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, at.Unix(), claims.IssuedAt.Unix())
}

func TestParse_RejectsExpired(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer("s3cret", at)
	token, _, err := issuer.Issue("id", "", "admin")
	require.NoError(t, err)

	issuer.now = func() time.Time { return at.Add(time.Hour + time.Second) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsOtherSecret(t *testing.T) {
	now := time.Now()
	token, _, err := fixedIssuer("one", now).Issue("id", "", "admin")
	require.NoError(t, err)

	_, err = fixedIssuer("two", now).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParse_RejectsUnsignedToken(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("s3cret", time.Hour).Parse(unsigned)
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, h.Compare(hash, "hunter22"))
	assert.False(t, h.Compare(hash, "hunter23"))
	assert.False(t, h.Compare("not-a-hash", "hunter22"))
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewTokenIssuer("s3cret", time.Hour)

	r := gin.New()
	r.POST("/guarded", RequireRole(issuer, "admin"), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"sub": claims.Subject})
	})

	adminToken, _, err := issuer.Issue("admin-1", "", "admin")
	require.NoError(t, err)
	userToken, _, err := issuer.Issue("user-1", "u@shop.co", "user")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "Bearer " + userToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
