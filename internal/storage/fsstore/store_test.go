package fsstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	return New(fsys, "./upload-dir"), fsys
}

func readAll(t *testing.T, res *models.Resource) []byte {
	t.Helper()
	defer res.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return b
}

func TestStore_StoreAndLoad(t *testing.T) {
	s, _ := newMemStore(t)
	ctx := context.Background()

	sf, err := s.Store(ctx, "report.json", strings.NewReader(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, "report.json", sf.Name)
	assert.EqualValues(t, 11, sf.Size)
	assert.False(t, sf.StoredAt.IsZero())

	res, err := s.Load(ctx, "report.json")
	require.NoError(t, err)
	assert.Equal(t, "report.json", res.Name)
	assert.EqualValues(t, 11, res.Size)
	assert.Equal(t, `{"ok":true}`, string(readAll(t, res)))
}

func TestStore_ReplacesExisting(t *testing.T) {
	s, _ := newMemStore(t)
	ctx := context.Background()

	_, err := s.Store(ctx, "a.json", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = s.Store(ctx, "a.json", strings.NewReader("second"))
	require.NoError(t, err)

	res, err := s.Load(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, "second", string(readAll(t, res)))

	names, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, names)
}

func TestStore_RejectsEmptyAndInvalid(t *testing.T) {
	s, fsys := newMemStore(t)
	ctx := context.Background()

	_, err := s.Store(ctx, "empty.json", bytes.NewReader(nil))
	assert.ErrorIs(t, err, models.ErrEmptyFile)

	for _, name := range []string{"../escape.json", "dir/nested.json", "/abs.json", "", ".upload-x.part"} {
		_, err = s.Store(ctx, name, strings.NewReader("x"))
		assert.ErrorIs(t, err, models.ErrInvalidName, name)
	}

	// ни финальных, ни временных файлов не осталось
	infos, err := afero.ReadDir(fsys, "/")
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestStore_LoadAllSkipsDirsAndTemps(t *testing.T) {
	s, fsys := newMemStore(t)
	ctx := context.Background()

	for _, n := range []string{"b.txt", "a.json", "c.json"} {
		_, err := s.Store(ctx, n, strings.NewReader(n))
		require.NoError(t, err)
	}
	require.NoError(t, fsys.MkdirAll("/puzzle", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/puzzle/metadata.json", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/.upload-dead.part", []byte("half"), 0o644))

	names, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.txt", "c.json"}, names)

	// вложенные файлы доступны напрямую
	res, err := s.Load(ctx, "puzzle/metadata.json")
	require.NoError(t, err)
	assert.Equal(t, "metadata.json", res.Name)
	assert.Equal(t, "{}", string(readAll(t, res)))
}

func TestStore_LoadNotFound(t *testing.T) {
	s, fsys := newMemStore(t)
	ctx := context.Background()
	require.NoError(t, fsys.MkdirAll("/puzzle", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/.upload-dead.part", []byte("half"), 0o644))

	for _, name := range []string{"does-not-exist.json", "puzzle", "../etc/passwd", ".upload-dead.part", ""} {
		_, err := s.Load(ctx, name)
		assert.True(t, errors.Is(err, models.ErrNotFound), "%q: %v", name, err)
	}
}

func TestStore_LoadRejectsAliasNames(t *testing.T) {
	s, fsys := newMemStore(t)
	ctx := context.Background()
	require.NoError(t, afero.WriteFile(fsys, "/a.json", []byte("{}"), 0o644))
	require.NoError(t, fsys.MkdirAll("/puzzle", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/puzzle/metadata.json", []byte("{}"), 0o644))

	for _, name := range []string{"a.json ", " a.json", "./a.json", "puzzle//metadata.json", "puzzle/./metadata.json", `puzzle\metadata.json`} {
		_, err := s.Load(ctx, name)
		assert.ErrorIs(t, err, models.ErrNotFound, "%q", name)
	}

	res, err := s.Load(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(readAll(t, res)))
}

func TestStore_ConcurrentDistinctNames(t *testing.T) {
	s, _ := newMemStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a'+i)) + ".json"
			_, err := s.Store(ctx, name, strings.NewReader(name))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	names, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 16)
}

func TestStore_Usage(t *testing.T) {
	s, fsys := newMemStore(t)
	ctx := context.Background()

	_, err := s.Store(ctx, "a.json", strings.NewReader("12345"))
	require.NoError(t, err)
	require.NoError(t, fsys.MkdirAll("/puzzle", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/puzzle/metadata.json", []byte("123"), 0o644))

	total, err := s.Usage(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, total)
}

func TestSweepOnce_RemovesOnlyStaleTemps(t *testing.T) {
	root := t.TempDir()
	s, err := NewOS(root)
	require.NoError(t, err)

	stale := filepath.Join(root, ".upload-stale.part")
	fresh := filepath.Join(root, ".upload-fresh.part")
	kept := filepath.Join(root, "old.json")
	for _, p := range []string{stale, fresh, kept} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(kept, old, old))

	removed, err := s.sweepOnce(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
	_, err = os.Stat(kept)
	assert.NoError(t, err)
}

func TestNewOS_StoresUnderRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "upload-dir")
	s, err := NewOS(root)
	require.NoError(t, err)
	assert.Equal(t, root, s.Root())

	_, err = s.Store(context.Background(), "report.json", strings.NewReader("{}"))
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(root, "report.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}
