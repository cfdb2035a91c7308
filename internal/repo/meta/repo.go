// Package meta ведёт журнал завершённых загрузок: имя, размер, SHA-256 и время записи.
package meta

import (
	"context"
	"strings"

	"github.com/sir_venger/upload_lite/internal/models"
)

const (
	uploadsTable = "uploads"
	memoryScheme = "memory://"
)

// Journal — хранилище записей о загрузках.
type Journal interface {
	Save(ctx context.Context, file models.StoredFile) error
	List(ctx context.Context) ([]models.StoredFile, error)
	Close()
}

// Open выбирает реализацию по DSN: пустой или memory:// означает память, иначе Postgres.
func Open(ctx context.Context, dsn string) (Journal, error) {
	if IsMemory(dsn) {
		return NewMemoryStore(), nil
	}

	return NewPGStore(ctx, strings.TrimSpace(dsn))
}

// IsMemory сообщает, что DSN указывает на in-memory журнал (миграции не нужны).
func IsMemory(dsn string) bool {
	dsn = strings.TrimSpace(dsn)
	return dsn == "" || strings.HasPrefix(dsn, memoryScheme)
}
