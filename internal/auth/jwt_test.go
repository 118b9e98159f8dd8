// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codeburry/api/internal/config"
	"github.com/codeburry/api/internal/core"
	"github.com/codeburry/api/internal/middleware"
)

func testJWTConfig(secret string) config.JWTConfig {
	return config.JWTConfig{
		Secret:   secret,
		Expire:   7 * 24 * time.Hour,
		Issuer:   "codeburry",
		Audience: "codeburry-web",
	}
}

func newTestManager(t *testing.T, secret string) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testJWTConfig(secret))
	require.NoError(t, err)
	return m
}

var aliceClaims = middleware.SessionClaims{
	UserID: "9b2f6c1e-0000-4000-8000-000000000001",
	Email:  "alice@example.com",
	Name:   "Alice",
	Role:   middleware.RoleUser,
	Avatar: "/avatar.png",
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t, "a-secret-long-enough-for-tests-000000")

	token, expiresAt, err := m.Issue(aliceClaims)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	claims, err := m.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, aliceClaims, *claims)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	issuer := newTestManager(t, "a-secret-long-enough-for-tests-000000")
	verifier := newTestManager(t, "a-different-secret-for-tests-1111111")

	token, _, err := issuer.Issue(aliceClaims)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := newTestManager(t, "a-secret-long-enough-for-tests-000000")
	m.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, _, err := m.Issue(aliceClaims)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t, "a-secret-long-enough-for-tests-000000")

	_, err := m.VerifyToken(context.Background(), "not.a.jwt")
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager(testJWTConfig(""))
	require.Error(t, err)
}
