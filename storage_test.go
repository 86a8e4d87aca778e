package mclog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(l *Logger, msg string) *Record {
	return l.newLogRecord(CategoryGeneral, SeverityInfo, "storage_test.go", 1, "testRecord", msg)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := strings.TrimRight(string(content), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// TestFileSinkRotation moves the log file away the way logrotate does, then
// rotates and checks the old file is left exactly as it was.
func TestFileSinkRotation(t *testing.T) {
	logger := NewLogger()
	dir := t.TempDir()
	path := filepath.Join(dir, "mythfrontend.log")
	moved := path + ".1"

	sink := NewFileSink(path, nil, nil)
	require.False(t, sink.Inert())
	assert.Equal(t, path, sink.Path())

	sink.HandleLog(testRecord(logger, "before rotation"))
	sink.Flush()
	require.NoError(t, os.Rename(path, moved))
	before, err := os.ReadFile(moved)
	require.NoError(t, err)

	sink.RotateLogs()
	sink.HandleLog(testRecord(logger, "after rotation"))
	require.NoError(t, sink.Close())

	after, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, before, after, "rotated file is untouched")
	assert.Contains(t, string(after), "before rotation")

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "after rotation")
}

func TestFileSinkRotateInPlaceAppends(t *testing.T) {
	logger := NewLogger()
	path := filepath.Join(t.TempDir(), "nested", "backend.log")

	sink := NewFileSink(path, nil, nil)
	sink.HandleLog(testRecord(logger, "one"))
	sink.RotateLogs()
	sink.HandleLog(testRecord(logger, "two"))
	require.NoError(t, sink.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "one")
	assert.Contains(t, lines[1], "two")
}

func TestFileSinkInertOnBadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	var reported []string
	rep := func(format string, args ...any) { reported = append(reported, format) }

	sink := NewFileSink(filepath.Join(blocker, "sub", "x.log"), nil, rep)
	assert.True(t, sink.Inert())
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0], "file sink disabled")

	// Inert sinks accept calls without effect
	sink.HandleLog(testRecord(NewLogger(), "dropped"))
	sink.Flush()
	assert.NoError(t, sink.Close())
}

func TestRotatingPathSinkInertUnderFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	var reported []string
	rep := func(format string, args ...any) { reported = append(reported, fmt.Sprintf(format, args...)) }

	done := make(chan *RotatingPathSink, 1)
	go func() { done <- NewRotatingPathSink(filepath.Join(blocker, "mclog"), nil, rep) }()

	var sink *RotatingPathSink
	select {
	case sink = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("NewRotatingPathSink did not return")
	}

	assert.True(t, sink.Inert())
	assert.Empty(t, sink.Path())
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0], "rotating path sink disabled")

	sink.HandleLog(testRecord(NewLogger(), "dropped"))
	sink.Flush()
	assert.NoError(t, sink.Close())
}

func TestRotatingPathSinkInertAfterRotation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.Mkdir(dir, 0755))

	var reported []string
	rep := func(format string, args ...any) { reported = append(reported, fmt.Sprintf(format, args...)) }

	sink := NewRotatingPathSink(filepath.Join(dir, "mythbackend"), nil, rep)
	require.False(t, sink.Inert())

	// Replace the directory with a regular file
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0644))

	done := make(chan struct{})
	go func() {
		sink.RotateLogs()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RotateLogs did not return")
	}

	assert.True(t, sink.Inert())
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0], "rotating path sink disabled")

	// Later rotations keep trying and keep failing without blocking
	sink.RotateLogs()
	assert.True(t, sink.Inert())
}

func TestLoggerInertRotatingPathSink(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	var errOut syncBuffer
	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(&bytes.Buffer{}, &errOut))

	initErr := make(chan error, 1)
	go func() {
		initErr <- logger.Initialize(CategoryGeneral, SeverityInfo, Destinations{
			LogPathPrefix: filepath.Join(blocker, "mclog"),
		}, false)
	}()
	select {
	case err := <-initErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Initialize did not return")
	}
	defer logger.Shutdown()

	st := logger.Stats()
	assert.Equal(t, 2, st.Sinks)
	assert.Equal(t, 1, st.InertSinks)
	assert.Equal(t, 1, strings.Count(errOut.String(), "rotating path sink disabled"))

	logger.RotateLogs()
	logger.Info(CategoryGeneral, "still dispatched")
	assert.Contains(t, errOut.String(), "still dispatched")
}

func TestRotatingPathSink(t *testing.T) {
	logger := NewLogger()
	prefix := filepath.Join(t.TempDir(), "mythcommflag")

	sink := NewRotatingPathSink(prefix, nil, nil)
	require.False(t, sink.Inert())

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sink.clock = func() time.Time { return clock }

	first := sink.Path()
	assert.True(t, strings.HasPrefix(first, prefix+"."))
	assert.True(t, strings.HasSuffix(first, ".log"))

	sink.HandleLog(testRecord(logger, "first file"))
	sink.RotateLogs()
	second := sink.Path()
	assert.NotEqual(t, first, second)
	assert.Contains(t, second, "20240301T120000.000000")

	sink.HandleLog(testRecord(logger, "second file"))
	sink.RotateLogs()
	third := sink.Path()
	assert.NotEqual(t, second, third, "same timestamp gets a numeric suffix")
	assert.True(t, strings.HasSuffix(third, "-1.log"))
	require.NoError(t, sink.Close())

	firstLines := readLines(t, first)
	require.Len(t, firstLines, 1)
	assert.Contains(t, firstLines[0], "first file")

	secondLines := readLines(t, second)
	require.Len(t, secondLines, 1)
	assert.Contains(t, secondLines[0], "second file")

	assert.Empty(t, readLines(t, third))
}

func TestLoggerFileDestinations(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "main.log")
	prefix := filepath.Join(dir, "rotating")

	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, logger.Initialize(CategoryGeneral, SeverityInfo, Destinations{
		LogFile:       logFile,
		LogPathPrefix: prefix,
	}, false))

	logger.Info(CategoryGeneral, "to both files")
	logger.RotateLogs()
	logger.Info(CategoryGeneral, "after rotate")

	st := logger.Stats()
	assert.Equal(t, 3, st.Sinks)
	assert.Equal(t, 0, st.InertSinks)
	require.NoError(t, logger.Shutdown())

	lines := readLines(t, logFile)
	require.Len(t, lines, 2)

	matches, err := filepath.Glob(prefix + ".*.log")
	require.NoError(t, err)
	assert.Len(t, matches, 2, "one file per rotation")
}

func TestLoggerInertSinkCounted(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	var errOut syncBuffer
	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(&bytes.Buffer{}, &errOut))
	require.NoError(t, logger.Initialize(CategoryGeneral, SeverityInfo, Destinations{
		LogFile: filepath.Join(blocker, "x.log"),
	}, false))
	defer logger.Shutdown()

	assert.Equal(t, 1, logger.Stats().InertSinks)
	assert.Contains(t, errOut.String(), "file sink disabled")

	logger.Info(CategoryGeneral, "console still works")
	assert.Contains(t, errOut.String(), "console still works")
}

func TestConsoleSinkQuiet(t *testing.T) {
	logger := NewLogger()
	var out, errOut bytes.Buffer

	c := NewConsoleSink(&out, &errOut, 0, nil)
	c.HandleLog(testRecord(logger, "log line"))
	c.HandlePrint(logger.newPrintRecord("print line\n", false))
	c.HandlePrint(logger.newPrintRecord("progress 1/2 ", false))
	c.Flush()
	assert.Contains(t, errOut.String(), "log line")
	assert.Equal(t, "print line\nprogress 1/2 ", out.String(), "prints are written unchanged")

	out.Reset()
	errOut.Reset()
	c.SetQuiet(1)
	c.HandleLog(testRecord(logger, "hidden"))
	c.HandlePrint(logger.newPrintRecord("shown", true))
	assert.Empty(t, errOut.String())
	assert.Equal(t, "shown", out.String(), "flush prints are written immediately")

	out.Reset()
	c.SetQuiet(2)
	c.HandlePrint(logger.newPrintRecord("silent", true))
	c.Flush()
	assert.Empty(t, out.String())
}
