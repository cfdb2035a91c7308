package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sir_venger/upload_lite/internal/config"
	"github.com/sir_venger/upload_lite/internal/repo/meta"
	"github.com/sir_venger/upload_lite/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = lg.Sync() }()

	if err = migrate(cfg.MetaDSN, lg); err != nil {
		lg.Error("migrations failed", "error", err)
		_ = lg.Sync()
		os.Exit(1)
	}
}

func migrate(dsn string, lg logger.Logger) error {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return errors.New("meta_dsn is not configured")
	}
	if meta.IsMemory(dsn) {
		lg.Info("memory upload journal selected, skipping migrations")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	applied, err := meta.ApplyMigrations(ctx, dsn)
	if err != nil {
		return err
	}

	lg.Info("migrations applied", "count", len(applied), "files", applied)
	return nil
}
