package compat

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/mclog"
)

// createTestCompatBuilder creates an inline-dispatch logger recording into a sink
func createTestCompatBuilder(t *testing.T) (*Builder, *mclog.Logger, *mclog.RecordingSink) {
	t.Helper()
	rec := mclog.NewRecordingSink()
	appLogger, err := mclog.NewBuilder().
		Categories("network,http").
		Severity("debug").
		UseWorker(false).
		ConsoleOutput(io.Discard, io.Discard).
		Sink(rec).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = appLogger.Shutdown() })

	return NewBuilder().WithLogger(appLogger), appLogger, rec
}

func TestCompatBuilder(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		builder, logger, _ := createTestCompatBuilder(t)

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Same(t, logger, gnetAdapter.logger)

		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)
		assert.Same(t, logger, fasthttpAdapter.logger)
	})

	t.Run("with config", func(t *testing.T) {
		cfg := mclog.DefaultConfig()
		cfg.UseWorker = false
		cfg.Quiet = 2

		builder := NewBuilder().WithConfig(cfg)
		logger, err := builder.GetLogger()
		require.NoError(t, err)
		defer logger.Shutdown()

		again, err := builder.GetLogger()
		require.NoError(t, err)
		assert.Same(t, logger, again)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewBuilder().WithLogger(nil).BuildGnet()
		assert.Error(t, err)
	})
}

func TestGnetAdapter(t *testing.T) {
	builder, _, rec := createTestCompatBuilder(t)

	var fatalMsg string
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)

	logs := rec.Logs()
	require.Len(t, logs, 4)

	expected := []struct {
		level mclog.Severity
		msg   string
	}{
		{mclog.SeverityDebug, "gnet debug id=1"},
		{mclog.SeverityInfo, "gnet info id=2"},
		{mclog.SeverityWarning, "gnet warn id=3"},
		{mclog.SeverityErr, "gnet error id=4"},
	}
	for i, exp := range expected {
		assert.Equal(t, exp.level, logs[i].Severity())
		assert.Equal(t, exp.msg, logs[i].Message())
		assert.Equal(t, mclog.CategoryNetwork, logs[i].Category())
		assert.Equal(t, "compat_test.go", logs[i].FileName(), "location should be the adapter's caller")
	}

	adapter.Fatalf("gnet fatal id=%d", 5)
	assert.Equal(t, "gnet fatal id=5", fatalMsg)

	logs = rec.Logs()
	require.Len(t, logs, 5)
	assert.Equal(t, mclog.SeverityCrit, logs[4].Severity())
	assert.True(t, rec.Closed(), "fatal shuts the logger down")
}

func TestGnetAdapterCategory(t *testing.T) {
	builder, _, rec := createTestCompatBuilder(t)

	adapter, err := builder.BuildGnet(WithGnetCategory(mclog.CategorySocket))
	require.NoError(t, err)

	adapter.Infof("filtered")
	assert.Empty(t, rec.Logs(), "socket category is not enabled")
}

func TestFastHTTPAdapter(t *testing.T) {
	builder, _, rec := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	expectedLevels := []mclog.Severity{
		mclog.SeverityInfo,
		mclog.SeverityDebug,
		mclog.SeverityWarning,
		mclog.SeverityErr,
	}

	logs := rec.Logs()
	require.Len(t, logs, len(testMessages))
	for i, r := range logs {
		assert.Equal(t, testMessages[i], r.Message())
		assert.Equal(t, expectedLevels[i], r.Severity())
		assert.Equal(t, mclog.CategoryHTTP, r.Category())
	}
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, _, rec := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP(
		WithDefaultLevel(mclog.SeverityNotice),
		WithLevelDetector(func(string) mclog.Severity { return mclog.SeverityAny }),
	)
	require.NoError(t, err)

	adapter.Printf("request failed")
	logs := rec.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, mclog.SeverityNotice, logs[0].Severity())
}

func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg  string
		want mclog.Severity
	}{
		{"connection failed", mclog.SeverityErr},
		{"PANIC in handler", mclog.SeverityErr},
		{"deprecated option", mclog.SeverityWarning},
		{"trace id 42", mclog.SeverityDebug},
		{"served /status", mclog.SeverityAny},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLogLevel(tt.msg), tt.msg)
	}
}
