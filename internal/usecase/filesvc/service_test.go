package filesvc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/internal/repo/meta"
	"github.com/sir_venger/upload_lite/internal/storage/fsstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Files, *meta.MemoryStore) {
	t.Helper()
	journal := meta.NewMemoryStore()
	return New(Deps{
		Storage: fsstore.New(afero.NewMemMapFs(), "./upload-dir"),
		Journal: journal,
	}), journal
}

func sum(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func TestUpload_RecordsSizeAndHash(t *testing.T) {
	svc, journal := newService(t)
	ctx := context.Background()

	// strings.Reader сикабельный, MultiReader нет, проверяем обе ветки хеширования
	inputs := map[string]io.Reader{
		"seek.json":   strings.NewReader(`{"seek":true}`),
		"stream.json": io.MultiReader(strings.NewReader(`{"stream":`), strings.NewReader(`true}`)),
	}
	for name, r := range inputs {
		file, err := svc.Upload(ctx, name, r)
		require.NoError(t, err)
		assert.Equal(t, name, file.Name)
	}

	records, err := journal.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	byName := map[string]models.StoredFile{}
	for _, r := range records {
		byName[r.Name] = r
	}
	assert.Equal(t, sum(`{"seek":true}`), byName["seek.json"].Sha256)
	assert.EqualValues(t, len(`{"seek":true}`), byName["seek.json"].Size)
	assert.Equal(t, sum(`{"stream":true}`), byName["stream.json"].Sha256)

	res, err := svc.Open(ctx, "seek.json")
	require.NoError(t, err)
	defer res.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"seek":true}`, string(b))
}

func TestUpload_StoreFailureSkipsJournal(t *testing.T) {
	svc, journal := newService(t)

	_, err := svc.Upload(context.Background(), "empty.json", strings.NewReader(""))
	assert.ErrorIs(t, err, models.ErrEmptyFile)

	records, err := journal.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

type failingJournal struct{}

func (failingJournal) Save(context.Context, models.StoredFile) error {
	return errors.New("db down")
}

func (failingJournal) List(context.Context) ([]models.StoredFile, error) { return nil, nil }

func TestUpload_JournalFailureSurfaces(t *testing.T) {
	svc := New(Deps{
		Storage: fsstore.New(afero.NewMemMapFs(), "./upload-dir"),
		Journal: failingJournal{},
	})

	_, err := svc.Upload(context.Background(), "a.json", strings.NewReader("{}"))
	assert.ErrorContains(t, err, "db down")
}

func TestListOpenUsageRoot(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, n := range []string{"b.txt", "a.json"} {
		_, err := svc.Upload(ctx, n, strings.NewReader(n))
		require.NoError(t, err)
	}

	names, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.txt"}, names)

	_, err = svc.Open(ctx, "missing.json")
	assert.ErrorIs(t, err, models.ErrNotFound)

	usage, err := svc.Usage(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len("b.txt")+len("a.json"), usage)

	assert.Equal(t, "./upload-dir", svc.Root())
}
