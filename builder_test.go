package mclog

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilder_Build tests the fluent builder API
func TestBuilder_Build(t *testing.T) {
	t.Run("successful build", func(t *testing.T) {
		rec := NewRecordingSink()
		logger, err := NewBuilder().
			Categories("record,noupnp").
			Severity("debug").
			UseWorker(false).
			QueueLimits(10, 20, 30).
			BatchSize(4).
			Quiet(1).
			ConsoleColor(true).
			HeartbeatIntervalS(0).
			ConsoleOutput(io.Discard, io.Discard).
			Sink(rec).
			Build()
		require.NoError(t, err)
		defer logger.Shutdown()

		cfg := logger.GetConfig()
		assert.Equal(t, "record,noupnp", cfg.Categories)
		assert.Equal(t, int64(30), cfg.QueueHard)
		assert.Equal(t, int64(4), cfg.BatchSize)
		assert.Equal(t, int64(1), cfg.Quiet)
		assert.True(t, cfg.ConsoleColor)
		assert.False(t, logger.Threaded())
		assert.Equal(t, CategoryGeneral|CategoryRecord, logger.CategoryMask())

		logger.Debug(CategoryRecord, "built")
		assert.Equal(t, []string{"built"}, messages(rec.Logs()))
	})

	t.Run("invalid categories", func(t *testing.T) {
		logger, err := NewBuilder().
			Categories("decoder").
			Severity("debug").
			Build()
		assert.Error(t, err)
		assert.Nil(t, logger)
	})

	t.Run("invalid severity", func(t *testing.T) {
		_, err := NewBuilder().Severity("loud").Build()
		assert.ErrorIs(t, err, ErrUnknownSeverity)
	})

	t.Run("invalid queue limits", func(t *testing.T) {
		_, err := NewBuilder().QueueLimits(30, 20, 10).Build()
		assert.Error(t, err)
	})

	t.Run("destinations", func(t *testing.T) {
		dir := t.TempDir()
		b := NewBuilder().
			LogFile(dir+"/a.log").
			LogPathPrefix(dir+"/b").
			SyslogFacility("none").
			WatchLogFile(true).
			HandleSighup(false)

		cfg := b.Config()
		assert.Equal(t, dir+"/a.log", cfg.LogFile)
		assert.Equal(t, dir+"/b", cfg.LogPathPrefix)
		assert.True(t, cfg.WatchLogFile)

		cfg.LogFile = "changed"
		assert.Equal(t, dir+"/a.log", b.Config().LogFile, "Config returns a copy")
	})
}
