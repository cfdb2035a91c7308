package meta

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ApplyMigrations накатывает встроенные миграции журнала и возвращает имена применённых файлов.
func ApplyMigrations(ctx context.Context, dsn string) ([]string, error) {
	if IsMemory(dsn) {
		return nil, fmt.Errorf("memory journal has no schema")
	}

	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect upload journal: %w", err)
	}

	migrations, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(database.DialectPostgres, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Path)
	}
	return applied, nil
}
