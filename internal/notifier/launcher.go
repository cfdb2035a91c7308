// Package notifier запускает внешний скрипт после каждой загрузки.
// Процесс не ожидается запросом: код выхода и вывод никем не читаются.
package notifier

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/sir_venger/upload_lite/pkg/logger"
	"github.com/sir_venger/upload_lite/pkg/metrics"
)

// Launcher запускает command с корнем хранилища последним аргументом.
type Launcher struct {
	command []string
	log     logger.Logger
}

// New создаёт запускатель; пустая команда отключает уведомления.
func New(command []string, log logger.Logger) *Launcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Launcher{
		command: append([]string(nil), command...),
		log:     log.With("component", "notifier"),
	}
}

// Notify запускает скрипт и сразу возвращается. Ошибка запуска только логируется.
func (l *Launcher) Notify(_ context.Context, root string) {
	if err := l.Launch(root); err != nil {
		l.log.Error("upload notifier launch failed", "root", root, "error", err)
	}
}

// Launch стартует процесс и отдаёт его ожидание фоновой горутине, чтобы не оставлять зомби.
// Контекст запроса намеренно не используется: жизнь процесса не привязана к запросу.
func (l *Launcher) Launch(root string) error {
	if len(l.command) == 0 {
		return nil
	}

	args := append(append([]string(nil), l.command[1:]...), root)
	cmd := exec.Command(l.command[0], args...)
	if err := cmd.Start(); err != nil {
		metrics.NotifierLaunchesTotal.WithLabelValues(metrics.StatusFailed).Inc()
		return fmt.Errorf("start %s: %w", l.command[0], err)
	}
	metrics.NotifierLaunchesTotal.WithLabelValues(metrics.StatusOK).Inc()

	pid := cmd.Process.Pid
	go func() {
		_ = cmd.Wait()
		l.log.Debug("upload notifier exited", "pid", pid)
	}()

	return nil
}
