package client_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturo/internal/client"
)

func TestTokenStore_GuardarCargarBorrar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facturo", "token")
	store := client.NewTokenStore(path)

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok, "sin archivo no hay sesión")

	require.NoError(t, store.Save("abc.def.ghi"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "borrar dos veces no falla")
	tok, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}
