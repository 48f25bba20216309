package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("2025/ATP_Matematika_Fase_A.csv", []byte("No,Tanggal\n1,2025-07-14\n"))
	require.NoError(t, err)
	assert.Equal(t, "2025/ATP_Matematika_Fase_A.csv", rel)

	file, err := store.Open(rel)
	require.NoError(t, err)
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "No,Tanggal\n1,2025-07-14\n", string(body))

	entries, err := os.ReadDir(filepath.Join(store.baseDir, "2025"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no partial files left behind")

	require.NoError(t, store.Delete(rel))
	require.NoError(t, store.Delete(rel))
	_, err = store.Open(rel)
	assert.Error(t, err)
}

func TestLocalStorageRejectsEscapingNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../outside.csv", "a/../../outside.csv", "/etc/passwd"} {
		_, err := store.Save(name, []byte("x"))
		assert.ErrorIs(t, err, ErrOutsideBase, name)
		_, err = store.Open(name)
		assert.ErrorIs(t, err, ErrOutsideBase, name)
	}

	rel, err := store.Save("a/../inside.csv", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "inside.csv", rel)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("old.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("fresh.xlsx", []byte("fresh"))
	require.NoError(t, err)
	partial := filepath.Join(store.baseDir, "stale.pdf.123"+partialSuffix)
	require.NoError(t, os.WriteFile(partial, []byte("half"), 0o644))

	past := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(store.baseDir, "old.pdf"), past, past))
	require.NoError(t, os.Chtimes(partial, past, past))

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, deleted)

	_, err = os.Stat(partial)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(store.baseDir, "fresh.xlsx"))
	assert.NoError(t, err)
}
