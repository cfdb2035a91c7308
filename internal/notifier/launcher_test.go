package notifier

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/sir_venger/upload_lite/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLaunch_MissingBinaryIsReportedNotPanics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New([]string{"definitely-not-installed-notifier-xyz", "./utils/PythonScript.py"}, logger.FromZap(zap.New(core)))

	err := l.Launch("./upload-dir")
	assert.Error(t, err)

	l.Notify(context.Background(), "./upload-dir")
	entries := logs.FilterMessage("upload notifier launch failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "./upload-dir", entries[0].ContextMap()["root"])
	assert.Equal(t, "notifier", entries[0].ContextMap()["component"])
}

func TestLaunch_EmptyCommandIsNoop(t *testing.T) {
	l := New(nil, nil)
	assert.NoError(t, l.Launch("./upload-dir"))
}

func TestLaunch_PassesRootAsLastArgAndDoesNotWait(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh is not available")
	}
	root := t.TempDir()
	marker := filepath.Join(root, "notified")

	// скрипт спит, поэтому Launch обязан вернуться раньше, чем появится маркер
	script := `sleep 1; printf '%s' "$0" > "$0/notified"`
	l := New([]string{sh, "-c", script}, logger.NewNop())

	started := time.Now()
	require.NoError(t, l.Launch(root))
	assert.Less(t, time.Since(started), 900*time.Millisecond)

	require.Eventually(t, func() bool {
		b, err := os.ReadFile(marker)
		return err == nil && string(b) == root
	}, 5*time.Second, 20*time.Millisecond)
}
