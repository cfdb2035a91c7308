package fsstore

import (
	"sync"
	"time"

	"github.com/sir_venger/upload_lite/pkg/logger"
	"github.com/spf13/afero"
)

// StartSweeper периодически удаляет .part-файлы, брошенные оборвавшимися загрузками.
// Возвращает функцию остановки; повторный вызов безопасен.
func (s *Store) StartSweeper(ttl, every time.Duration, log logger.Logger) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				removed, err := s.sweepOnce(ttl)
				if err != nil {
					log.Warn("sweep of stale uploads failed", "error", err)
					continue
				}
				if removed > 0 {
					log.Info("stale uploads removed", "count", removed)
				}
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}

// sweepOnce удаляет временные файлы старше ttl и возвращает их количество.
func (s *Store) sweepOnce(ttl time.Duration) (int, error) {
	now := time.Now()
	infos, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, fi := range infos {
		if fi.IsDir() || !isTemp(fi.Name()) {
			continue
		}
		if now.Sub(fi.ModTime()) < ttl {
			continue
		}
		if err := s.fs.Remove("/" + fi.Name()); err == nil {
			removed++
		}
	}

	return removed, nil
}
