package meta

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sir_venger/upload_lite/internal/models"
)

// PGStore сохраняет журнал загрузок в Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewPGStore создаёт пул подключений; схему создаёт cmd/migrate.
func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("meta dsn is empty")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return &PGStore{pool: pool}, nil
}

// Save записывает (или обновляет) запись о загрузке.
func (s *PGStore) Save(ctx context.Context, f models.StoredFile) error {
	sqlStr, args, err := psql.
		Insert(uploadsTable).
		Columns("name", "size", "sha256", "stored_at").
		Values(f.Name, f.Size, f.Sha256, f.StoredAt).
		Suffix(`
			ON CONFLICT (name) DO UPDATE
			SET size      = EXCLUDED.size,
				sha256    = EXCLUDED.sha256,
				stored_at = EXCLUDED.stored_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert sql: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("exec upsert: %w", err)
	}

	return nil
}

// List возвращает записи от самых свежих к старым.
func (s *PGStore) List(ctx context.Context) ([]models.StoredFile, error) {
	sqlStr, args, err := psql.
		Select("name", "size", "sha256", "stored_at").
		From(uploadsTable).
		OrderBy("stored_at DESC", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	var out []models.StoredFile
	for rows.Next() {
		var f models.StoredFile
		if err := rows.Scan(&f.Name, &f.Size, &f.Sha256, &f.StoredAt); err != nil {
			return nil, fmt.Errorf("scan upload row: %w", err)
		}
		out = append(out, f)
	}

	return out, rows.Err()
}

// Close освобождает подключения пула.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
