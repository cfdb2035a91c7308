package meta

import (
	"context"
	"testing"
	"time"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MemoryDSN(t *testing.T) {
	for _, dsn := range []string{"", "memory://", "  memory://local  "} {
		j, err := Open(context.Background(), dsn)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, j)
		assert.True(t, IsMemory(dsn))
		j.Close()
	}
	assert.False(t, IsMemory("postgres://u:p@localhost:5432/uploads"))
}

func TestMemoryStore_UpsertAndOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, models.StoredFile{Name: "a.json", Size: 1, StoredAt: base}))
	require.NoError(t, s.Save(ctx, models.StoredFile{Name: "b.txt", Size: 2, StoredAt: base.Add(time.Minute)}))
	require.NoError(t, s.Save(ctx, models.StoredFile{Name: "a.json", Size: 3, Sha256: "ff", StoredAt: base.Add(2 * time.Minute)}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.json", got[0].Name)
	assert.EqualValues(t, 3, got[0].Size)
	assert.Equal(t, "ff", got[0].Sha256)
	assert.Equal(t, "b.txt", got[1].Name)
}

func TestApplyMigrations_RejectsMemoryDSN(t *testing.T) {
	_, err := ApplyMigrations(context.Background(), "memory://")
	require.Error(t, err)

	entries, err := migrationFiles.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_create_uploads.sql", entries[0].Name())
}
