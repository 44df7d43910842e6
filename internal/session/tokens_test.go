package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRIYANSHUKESHRI01/footoverbridge/internal/session"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "token")

	store, err := session.NewFileTokenStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Token())

	require.NoError(t, store.Set("abc123"))
	assert.Equal(t, "abc123", store.Token())

	// A fresh store over the same file sees the persisted token.
	reopened, err := session.NewFileTokenStore(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", reopened.Token())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileTokenStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := session.NewFileTokenStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("abc123"))
	require.NoError(t, store.Set(""))
	assert.Empty(t, store.Token())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already empty store is fine.
	require.NoError(t, store.Set(""))
}
