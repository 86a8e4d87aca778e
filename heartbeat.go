package mclog

import (
	"fmt"
	"time"
)

// logHeartbeat queues a general/info record summarising the counters. It is
// called from the worker and never throttles.
func (l *Logger) logHeartbeat() {
	st := l.Stats()
	sequence := l.state.HeartbeatSequence.Add(1)

	msg := fmt.Sprintf("heartbeat sequence=%d uptime_hours=%.2f enqueued=%d dropped=%d dispatched=%d prints=%d filtered=%d rotations=%d queue_depth=%d throttle_us=%d inert_sinks=%d",
		sequence, st.Uptime.Hours(), st.Enqueued, st.Dropped, st.DispatchedLogs,
		st.DispatchedPrints, st.Filtered, st.Rotations, st.QueueDepth, st.ThrottleUs, st.InertSinks)

	file, function, line := callerInfo(0)
	r := l.newLogRecord(CategoryGeneral, SeverityInfo, file, line, function, msg)
	l.push(r)
}

// heartbeatInterval returns the configured interval, zero when disabled.
func (l *Logger) heartbeatInterval() time.Duration {
	return time.Duration(l.getConfig().HeartbeatIntervalS) * time.Second
}
