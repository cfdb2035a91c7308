package meta

import (
	"context"
	"sort"
	"sync"

	"github.com/sir_venger/upload_lite/internal/models"
)

// MemoryStore хранит журнал только в оперативной памяти; удобно для тестов и одиночного инстанса.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]models.StoredFile
}

// NewMemoryStore создаёт пустое in-memory хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: map[string]models.StoredFile{}}
}

// Save записывает (или заменяет) запись по имени файла.
func (s *MemoryStore) Save(_ context.Context, f models.StoredFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[f.Name] = f
	return nil
}

// List возвращает записи от самых свежих к старым.
func (s *MemoryStore) List(_ context.Context) ([]models.StoredFile, error) {
	s.mu.RLock()
	out := make([]models.StoredFile, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StoredAt.Equal(out[j].StoredAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].StoredAt.After(out[j].StoredAt)
	})
	return out, nil
}

func (s *MemoryStore) Close() {}
