package mclog

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for a writer and a reader on different goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// createTestLogger creates an initialized logger that records into a sink and
// discards console output
func createTestLogger(t *testing.T, mask Category, level Severity, useWorker bool) (*Logger, *RecordingSink) {
	t.Helper()
	logger := NewLogger()
	rec := NewRecordingSink()
	require.NoError(t, logger.SetConsoleOutput(io.Discard, io.Discard))
	require.NoError(t, logger.AddSink(rec))
	require.NoError(t, logger.Initialize(mask, level, Destinations{}, useWorker))
	t.Cleanup(func() { _ = logger.Shutdown() })
	return logger, rec
}

func messages(records []*Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message()
	}
	return out
}

// TestNewLogger verifies that a new logger starts unconfigured with an open filter
func TestNewLogger(t *testing.T) {
	logger := NewLogger()

	assert.NotNil(t, logger)
	assert.False(t, logger.state.IsInitialized.Load())
	assert.False(t, logger.Threaded())
	assert.True(t, logger.IsLoggable(CategoryAll, SeverityDebug))
	assert.Equal(t, 0, logger.QueueDepth())
}

func TestInitializeTwice(t *testing.T) {
	logger, _ := createTestLogger(t, CategoryGeneral, SeverityInfo, false)

	err := logger.Initialize(CategoryAll, SeverityDebug, Destinations{}, false)
	assert.Error(t, err)
	assert.Equal(t, SeverityInfo, logger.SeverityThreshold(), "failed initialize keeps the filter")

	require.NoError(t, logger.Shutdown())
	assert.Error(t, logger.Initialize(CategoryAll, SeverityDebug, Destinations{}, false))
}

// TestApplyConfig verifies that a config installs the file sink and filter
func TestApplyConfig(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "mythbackend.log")

	cfg := DefaultConfig()
	cfg.Categories = "record,noupnp"
	cfg.Severity = "debug"
	cfg.LogFile = logPath
	cfg.UseWorker = false

	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(io.Discard, io.Discard))
	require.NoError(t, logger.ApplyConfig(cfg))

	assert.True(t, logger.state.IsInitialized.Load())
	assert.Equal(t, CategoryGeneral|CategoryRecord, logger.CategoryMask())
	assert.Equal(t, SeverityDebug, logger.SeverityThreshold())
	assert.Equal(t, logPath, logger.Destinations().LogFile)
	assert.Equal(t, "debug", logger.GetConfig().Severity)

	logger.Info(CategoryRecord, "recording started", 42)
	logger.Info(CategoryUPnP, "not written")
	require.NoError(t, logger.Shutdown())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "recording started 42")
	assert.NotContains(t, string(content), "not written")

	assert.Error(t, logger.ApplyConfig(cfg), "a logger is configured once")
}

func TestApplyConfigInvalid(t *testing.T) {
	logger := NewLogger()

	assert.Error(t, logger.ApplyConfig(nil))

	cfg := DefaultConfig()
	cfg.Categories = "decoder"
	assert.Error(t, logger.ApplyConfig(cfg))
	assert.False(t, logger.state.IsInitialized.Load())
}

// TestApplyConfigString tests applying configuration overrides from key-value strings
func TestApplyConfigString(t *testing.T) {
	tests := []struct {
		name         string
		configString []string
		verify       func(t *testing.T, l *Logger)
		wantError    bool
	}{
		{
			name: "basic config string",
			configString: []string{
				"categories=mheg,upnp",
				"severity=notice",
				"use_worker=false",
				"quiet=2",
			},
			verify: func(t *testing.T, l *Logger) {
				assert.Equal(t, CategoryGeneral|CategoryMHEG|CategoryUPnP, l.CategoryMask())
				assert.Equal(t, SeverityNotice, l.SeverityThreshold())
				assert.False(t, l.Threaded())
			},
		},
		{
			name:         "numeric severity",
			configString: []string{"severity=7", "quiet=2"},
			verify: func(t *testing.T, l *Logger) {
				assert.Equal(t, SeverityDebug, l.SeverityThreshold())
				assert.Equal(t, "debug", l.GetConfig().Severity)
			},
		},
		{
			name:         "invalid format",
			configString: []string{"invalid"},
			wantError:    true,
		},
		{
			name:         "unknown key",
			configString: []string{"directory=/tmp"},
			wantError:    true,
		},
		{
			name:         "bad boolean",
			configString: []string{"use_worker=maybe"},
			wantError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger()
			defer logger.Shutdown()

			err := logger.ApplyConfigString(tt.configString...)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.verify(t, logger)
		})
	}
}

func TestLoggerSeverityHelpers(t *testing.T) {
	logger, rec := createTestLogger(t, CategoryGeneral, SeverityDebug, false)

	logger.Error(CategoryGeneral, "error", 1)
	logger.Warn(CategoryGeneral, "warning", 2)
	logger.Notice(CategoryGeneral, "notice", 3)
	logger.Info(CategoryGeneral, "info", 4)
	logger.Debug(CategoryGeneral, "debug", 5)
	logger.Log(CategoryGeneral, SeverityCrit, "crit", 6)
	logger.Logf(CategoryGeneral, SeverityAlert, "alert %d", 7)

	logs := rec.Logs()
	require.Len(t, logs, 7)

	wantLevels := []Severity{SeverityErr, SeverityWarning, SeverityNotice, SeverityInfo, SeverityDebug, SeverityCrit, SeverityAlert}
	wantMsgs := []string{"error 1", "warning 2", "notice 3", "info 4", "debug 5", "crit 6", "alert 7"}
	for i, r := range logs {
		assert.Equal(t, wantLevels[i], r.Severity())
		assert.Equal(t, wantMsgs[i], r.Message())
		assert.Equal(t, "logger_test.go", r.FileName())
		assert.Equal(t, "TestLoggerSeverityHelpers", r.FunctionName())
		assert.Positive(t, r.Line())
	}
}

func logFromHelper(l *Logger) {
	l.Output(2, CategoryGeneral, SeverityInfo, "from helper")
}

func TestLoggerOutputCallDepth(t *testing.T) {
	logger, rec := createTestLogger(t, CategoryGeneral, SeverityInfo, false)

	logFromHelper(logger)
	logger.Output(1, CategoryGeneral, SeverityInfo, "direct")

	logs := rec.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "TestLoggerOutputCallDepth", logs[0].FunctionName())
	assert.Equal(t, "TestLoggerOutputCallDepth", logs[1].FunctionName())
}

func TestLogLineExplicitLocation(t *testing.T) {
	logger, rec := createTestLogger(t, CategoryAll, SeverityDebug, false)

	logger.LogLine(CategoryRecord, SeverityWarning, "tv_rec.cpp", 1234, "TVRec::run", "tuner lost lock")

	logs := rec.Logs()
	require.Len(t, logs, 1)
	r := logs[0]
	assert.Equal(t, "tv_rec.cpp", r.FileName())
	assert.Equal(t, 1234, r.Line())
	assert.Equal(t, "TVRec::run", r.FunctionName())
	assert.Equal(t, CategoryRecord, r.Category())
	assert.Equal(t, os.Getpid(), r.ProcessID())
	assert.False(t, r.IsPrint())
}

func TestLoggerConsoleOutput(t *testing.T) {
	var out, errOut syncBuffer

	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(&out, &errOut))
	require.NoError(t, logger.Initialize(CategoryGeneral, SeverityInfo, Destinations{}, false))
	defer logger.Shutdown()

	logger.Info(CategoryGeneral, "to the error stream")
	logger.PrintLine("to the output stream\n", true)

	assert.Contains(t, errOut.String(), " I [")
	assert.Contains(t, errOut.String(), "to the error stream")
	assert.Equal(t, "to the output stream\n", out.String())

	assert.Error(t, logger.SetConsoleOutput(nil, nil), "console output is fixed after initialization")

	logger.SetQuiet(1)
	logger.Info(CategoryGeneral, "suppressed")
	logger.Printf("still %s\n", "printed")
	assert.NotContains(t, errOut.String(), "suppressed")
	assert.True(t, strings.HasSuffix(out.String(), "still printed\n"))
}

func TestAddSink(t *testing.T) {
	logger, first := createTestLogger(t, CategoryGeneral, SeverityInfo, false)

	assert.Error(t, logger.AddSink(nil))

	second := NewRecordingSink()
	require.NoError(t, logger.AddSink(second))

	logger.Info(CategoryGeneral, "both")
	assert.Equal(t, []string{"both"}, messages(first.Logs()))
	assert.Equal(t, []string{"both"}, messages(second.Logs()))

	require.NoError(t, logger.Shutdown())
	assert.True(t, second.Closed())
	assert.Error(t, logger.AddSink(NewRecordingSink()))
}

func TestRotateLogs(t *testing.T) {
	logger, rec := createTestLogger(t, CategoryGeneral, SeverityInfo, false)

	logger.RotateLogs()
	logger.RotateLogs()

	assert.Equal(t, 2, rec.RotationCount())
	assert.Equal(t, uint64(2), logger.Stats().Rotations)
}

func TestInternalLogRateLimited(t *testing.T) {
	var errOut syncBuffer
	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(io.Discard, &errOut))

	for i := 0; i < 50; i++ {
		logger.internalLog("diagnostic %d", i)
	}

	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	assert.Len(t, lines, 10, "burst allowance")
	assert.Equal(t, "mclog: diagnostic 0", lines[0])
	assert.Equal(t, uint64(40), logger.Stats().SuppressedDiagnostics)
}

func TestInternalLogDisabled(t *testing.T) {
	var errOut syncBuffer
	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(io.Discard, &errOut))
	require.NoError(t, logger.ApplyConfigString("internal_errors=false", "use_worker=false"))
	defer logger.Shutdown()

	logger.internalLog("hidden")
	assert.Empty(t, errOut.String())
}
