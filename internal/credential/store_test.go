// ABOUTME: Tests for token persistence and local JWT expiry inspection
// ABOUTME: Covers round-trip, file permissions, env override, and exp-claim handling

package credential

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "token"), nil)
	require.NoError(t, err)
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Load()
	assert.False(t, ok, "empty store should report no token")

	require.NoError(t, store.Save("tok-abc123"))

	token, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-abc123", token)
}

func TestStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("tok"))
	require.NoError(t, store.Clear())

	_, ok := store.Load()
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestStore_EnvOverride(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("file-token"))

	t.Setenv(envToken, "env-token")

	token, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "env-token", token, "environment token takes precedence")
}

func TestStore_DefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg-test/flightdeck/token", path)
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "42",
		"exp": expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{
			name:    "future expiry",
			token:   signedToken(t, now.Add(time.Hour)),
			expired: false,
		},
		{
			name:    "past expiry",
			token:   signedToken(t, now.Add(-time.Hour)),
			expired: true,
		},
		{
			name:    "malformed token",
			token:   "not-a-jwt",
			expired: false,
		},
		{
			name:    "empty token",
			token:   "",
			expired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, Expired(tt.token, now))
		})
	}
}

func TestExpired_NoExpClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.False(t, Expired(token, time.Now()), "token without exp is left to the server")
}
