package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("contratos/CONT-1.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "contratos/CONT-1.pdf", name)

	file, err := store.Open(name)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	data := make([]byte, 8)
	_, err = file.Read(data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestLocalStorageSaveStream(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.SaveStream("cotacoes.csv", strings.NewReader("numero;valor\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "numero;valor\n", string(content))
}

func TestLocalStorageDeleteMissingFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("nunca-existiu.pdf"))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("velho.csv", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save("novo.csv", []byte("b"))
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "velho.csv"), old, old))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"velho.csv"}, deleted)

	_, err = os.Stat(filepath.Join(dir, "novo.csv"))
	assert.NoError(t, err)
}
