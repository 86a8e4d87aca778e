package mclog

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWatchLogFileRotatesOnRename renames the active file and expects the
// logger to reopen the configured path.
func TestWatchLogFileRotatesOnRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mythbackend.log")
	moved := filepath.Join(dir, "mythbackend.log.1")

	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(io.Discard, io.Discard))
	require.NoError(t, logger.ApplyConfigString(
		"log_file="+path,
		"watch_log_file=true",
		"use_worker=false",
	))
	defer logger.Shutdown()

	logger.Info(CategoryGeneral, "before move")
	require.NoError(t, os.Rename(path, moved))

	require.Eventually(t, func() bool {
		return logger.Stats().Rotations > 0
	}, 5*time.Second, 20*time.Millisecond)

	logger.Info(CategoryGeneral, "after move")
	require.NoError(t, logger.Shutdown())

	old := readLines(t, moved)
	require.Len(t, old, 1)
	assert.Contains(t, old[0], "before move")

	current := readLines(t, path)
	require.Len(t, current, 1)
	assert.Contains(t, current[0], "after move")
}

func TestWatchLogFileIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.log")
	other := filepath.Join(dir, "other.log")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(io.Discard, io.Discard))
	require.NoError(t, logger.ApplyConfigString("log_file="+path, "watch_log_file=true", "use_worker=false"))
	defer logger.Shutdown()

	require.NoError(t, os.Remove(other))
	time.Sleep(3 * rotateDebounce)
	assert.Equal(t, uint64(0), logger.Stats().Rotations)
}

func TestHandleSignals(t *testing.T) {
	// Keep SIGHUP from terminating the test binary if it arrives before the
	// handler is installed
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGHUP)
	defer signal.Stop(guard)

	logger, rec := createTestLogger(t, CategoryGeneral, SeverityInfo, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.HandleSignals(ctx)
	}()

	require.Eventually(t, func() bool {
		_ = syscall.Kill(os.Getpid(), syscall.SIGHUP)
		return rec.RotationCount() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("signal handler did not stop")
	}
}

func TestStopWatchers(t *testing.T) {
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGHUP)
	defer signal.Stop(guard)

	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(io.Discard, io.Discard))
	require.NoError(t, logger.ApplyConfigString("handle_sighup=true", "use_worker=false"))
	require.NotNil(t, logger.watchCancel)

	require.NoError(t, logger.Shutdown())
	assert.Nil(t, logger.watchCancel)
}
