package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clar17y/Football-Events-sub005/internal/client/store"

	_ "modernc.org/sqlite"
)

func setup(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenPersistsAcrossSessions(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	s, err := New(ctx, st.DB())
	require.NoError(t, err)
	assert.Empty(t, s.Token())
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.SetToken(ctx, "opaque-token-1"))
	assert.Equal(t, "opaque-token-1", s.Token())

	// A fresh session over the same database sees the stored token.
	reopened, err := New(ctx, st.DB())
	require.NoError(t, err)
	assert.Equal(t, "opaque-token-1", reopened.Token())
	assert.True(t, reopened.IsAuthenticated())
}

func TestClear(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	s, err := New(ctx, st.DB())
	require.NoError(t, err)
	require.NoError(t, s.SetToken(ctx, "tok"))

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.Token())
	assert.False(t, s.IsAuthenticated())

	reopened, err := New(ctx, st.DB())
	require.NoError(t, err)
	assert.Empty(t, reopened.Token())
}

func TestSetToken_Overwrites(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	s, err := New(ctx, st.DB())
	require.NoError(t, err)

	require.NoError(t, s.SetToken(ctx, "first"))
	require.NoError(t, s.SetToken(ctx, "second"))
	assert.Equal(t, "second", s.Token())
}

func TestIsAuthenticated_JWTExpiry(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	s, err := New(ctx, st.DB())
	require.NoError(t, err)
	s.now = func() time.Time { return now }

	valid := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(time.Hour).Unix()})
	require.NoError(t, s.SetToken(ctx, valid))
	assert.True(t, s.IsAuthenticated())

	expired := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(-time.Minute).Unix()})
	require.NoError(t, s.SetToken(ctx, expired))
	assert.False(t, s.IsAuthenticated(), "an expired token cannot gate a refresh open")

	noExpiry := signedToken(t, jwt.MapClaims{"sub": "u1"})
	require.NoError(t, s.SetToken(ctx, noExpiry))
	assert.True(t, s.IsAuthenticated(), "tokens without an exp claim are left to the server")
}

func TestUserID(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	s, err := New(ctx, st.DB())
	require.NoError(t, err)
	assert.Empty(t, s.UserID(), "no token, no user")

	require.NoError(t, s.SetToken(ctx, signedToken(t, jwt.MapClaims{"sub": "user-42"})))
	assert.Equal(t, "user-42", s.UserID())

	require.NoError(t, s.SetToken(ctx, "not-a-jwt"))
	assert.Empty(t, s.UserID(), "opaque tokens carry no subject")
}
