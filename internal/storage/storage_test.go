package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-selection-translator/pkg/settings"
)

func TestFile_LoadSave(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "settings.json")
	f := NewFile(path)

	data, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, f.Save(ctx, []byte(`{"a":1}`)))
	require.NoError(t, f.Save(ctx, []byte(`{"a":2}`)))

	data, err = f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files cleaned up")
}

func TestSQLite_LoadSave(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "translate.db"))
	require.NoError(t, err)
	defer db.Close()

	data, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, db.Save(ctx, []byte(`{"v":1}`)))
	require.NoError(t, db.Save(ctx, []byte(`{"v":2}`)))

	data, err = db.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))
}

func TestBackends_WithStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := OpenSQLite(ctx, filepath.Join(dir, "translate.db"))
	require.NoError(t, err)
	defer db.Close()

	backends := map[string]settings.Backend{
		"file":   NewFile(filepath.Join(dir, "settings.json")),
		"sqlite": db,
	}
	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, backend.Save(ctx, []byte(`{"openaiApiKey":"sk-abc","targetLanguage":"French"}`)))

			first := settings.NewStore(backend, nil)
			s, err := first.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, settings.PathLegacyKeys, first.Path())
			assert.Equal(t, "French", s.TargetLanguage)

			second := settings.NewStore(backend, nil)
			s2, err := second.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, settings.PathCurrent, second.Path())
			assert.Equal(t, s, s2)
		})
	}
}
