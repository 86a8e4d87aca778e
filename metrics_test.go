package mclog

import (
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	logger := NewLogger()
	require.NoError(t, logger.SetConsoleOutput(io.Discard, io.Discard))
	require.NoError(t, logger.SetQueueLimits(0, 2, 2))

	for i := 0; i < 3; i++ {
		logger.Info(CategoryGeneral, "queued")
	}

	c := NewCollector(logger)
	assert.Equal(t, 9, testutil.CollectAndCount(c))

	expected := `
# HELP mclog_queue_depth Records waiting for dispatch.
# TYPE mclog_queue_depth gauge
mclog_queue_depth 2
# HELP mclog_records_dropped_total Records dropped at the hard threshold or after shutdown.
# TYPE mclog_records_dropped_total counter
mclog_records_dropped_total 1
# HELP mclog_records_enqueued_total Records accepted into the queue.
# TYPE mclog_records_enqueued_total counter
mclog_records_enqueued_total 2
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"mclog_queue_depth", "mclog_records_enqueued_total", "mclog_records_dropped_total"))

	require.NoError(t, logger.Initialize(CategoryGeneral, SeverityInfo, Destinations{}, false))
	defer logger.Shutdown()

	expected = `
# HELP mclog_queue_depth Records waiting for dispatch.
# TYPE mclog_queue_depth gauge
mclog_queue_depth 0
# HELP mclog_records_dispatched_total Log records handed to sinks.
# TYPE mclog_records_dispatched_total counter
mclog_records_dispatched_total 2
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"mclog_queue_depth", "mclog_records_dispatched_total"))
}

func TestCollectorRegisters(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(NewLogger())))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 9)
}
