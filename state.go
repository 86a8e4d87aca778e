package mclog

import (
	"sync/atomic"
	"time"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized  atomic.Bool
	ShutdownCalled atomic.Bool

	Enqueued              atomic.Uint64 // Records accepted into the queue
	Dropped               atomic.Uint64 // Records rejected at the hard threshold or after shutdown
	DispatchedLogs        atomic.Uint64 // Log records handed to sinks
	DispatchedPrints      atomic.Uint64 // Print records handed to sinks
	Filtered              atomic.Uint64 // Log records rejected by the filter at dispatch
	Rotations             atomic.Uint64 // RotateLogs requests served
	SuppressedDiagnostics atomic.Uint64 // Internal diagnostics dropped by the rate limiter
	ThrottleUs            atomic.Int64  // Mirror of the producer delay for observers

	HeartbeatSequence atomic.Uint64
	StartTime         atomic.Value // stores time.Time
}

// Stats is a point-in-time copy of the logger counters.
type Stats struct {
	Enqueued              uint64
	Dropped               uint64
	DispatchedLogs        uint64
	DispatchedPrints      uint64
	Filtered              uint64
	Rotations             uint64
	SuppressedDiagnostics uint64
	QueueDepth            int
	ThrottleUs            int64
	Sinks                 int
	InertSinks            int
	Threaded              bool
	Uptime                time.Duration
}

// Stats returns the current counters.
func (l *Logger) Stats() Stats {
	st := Stats{
		Enqueued:              l.state.Enqueued.Load(),
		Dropped:               l.state.Dropped.Load(),
		DispatchedLogs:        l.state.DispatchedLogs.Load(),
		DispatchedPrints:      l.state.DispatchedPrints.Load(),
		Filtered:              l.state.Filtered.Load(),
		Rotations:             l.state.Rotations.Load(),
		SuppressedDiagnostics: l.state.SuppressedDiagnostics.Load(),
		ThrottleUs:            l.state.ThrottleUs.Load(),
		QueueDepth:            l.QueueDepth(),
		Threaded:              l.threaded.Load(),
	}
	if start, ok := l.state.StartTime.Load().(time.Time); ok && !start.IsZero() {
		st.Uptime = time.Since(start)
	}

	l.sinkMu.Lock()
	st.Sinks = len(l.sinks)
	for _, s := range l.sinks {
		if in, ok := s.(Inerter); ok && in.Inert() {
			st.InertSinks++
		}
	}
	l.sinkMu.Unlock()
	return st
}
