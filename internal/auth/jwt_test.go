// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/config"
	"github.com/lizrongrong/diary-social-system-class-team-sub001/internal/core"
)

func newTestJWTManager(t *testing.T, ttl time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	m, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  ttl,
		RefreshTokenExpire: time.Hour,
		Issuer:             "diary-test",
		Audience:           "diary-test-api",
	})
	require.NoError(t, err)
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager(t, 15*time.Minute)

	token, expiresAt, err := m.CreateAccessToken(AccessTokenClaims{
		UserID:       "4kP9xQ2",
		Role:         "member",
		TokenVersion: 3,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "4kP9xQ2", claims.UserID)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.NotEmpty(t, claims.JTI)
}

func TestParseAccessTokenRejectsForeignKey(t *testing.T) {
	issuer := newTestJWTManager(t, time.Minute)
	verifier := newTestJWTManager(t, time.Minute)

	token, _, err := issuer.CreateAccessToken(AccessTokenClaims{UserID: "u1", Role: "member"})
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestParseAccessTokenExpired(t *testing.T) {
	m := newTestJWTManager(t, -time.Minute)

	token, _, err := m.CreateAccessToken(AccessTokenClaims{UserID: "u1", Role: "member"})
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	m := newTestJWTManager(t, time.Minute)

	_, err := m.ParseAccessToken("not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWKSHandler(t *testing.T) {
	m := newTestJWTManager(t, time.Minute)

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, m.KeyID(), body.Keys[0]["kid"])
	assert.Equal(t, "EC", body.Keys[0]["kty"])
}

func TestCreateRefreshTokenKeepsFamily(t *testing.T) {
	m := newTestJWTManager(t, time.Minute)

	first, err := m.CreateRefreshToken("u1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.FamilyID)
	assert.Equal(t, core.HashToken(first.Token), first.Hash)

	rotated, err := m.CreateRefreshToken("u1", first.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, first.FamilyID, rotated.FamilyID)
	assert.NotEqual(t, first.Token, rotated.Token)
}

func TestKeyIDIsStableForTheSameKey(t *testing.T) {
	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	require.NoError(t, GenerateKeyPair(privatePath, filepath.Join(dir, "public.pem")))

	cfg := config.JWTConfig{
		PrivateKeyPath:    privatePath,
		AccessTokenExpire: time.Minute,
		Issuer:            "diary-test",
		Audience:          "diary-test-api",
	}
	a, err := NewJWTManager(cfg)
	require.NoError(t, err)
	b, err := NewJWTManager(cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, a.KeyID())
	assert.Equal(t, a.KeyID(), b.KeyID())

	token, _, err := a.CreateAccessToken(AccessTokenClaims{UserID: "u1", Role: "member"})
	require.NoError(t, err)
	_, err = b.ParseAccessToken(token)
	assert.NoError(t, err)
}
