package mclog

import "time"

// enqueue appends r to the pending queue and applies backpressure.
//
// At the hard threshold the record is dropped and the throttle is reset.
// Otherwise, in inline mode the queue is drained on the calling goroutine;
// in worker mode the worker is woken and the caller sleeps for the current
// throttle delay after releasing the queue lock.
func (l *Logger) enqueue(r *Record) {
	sleepUs, ok := l.push(r)
	if !ok {
		return
	}

	if !l.threaded.Load() {
		l.drain(false)
		return
	}

	l.signalWorker()
	if sleepUs > 0 {
		time.Sleep(time.Duration(sleepUs) * time.Microsecond)
	}
}

// push appends r under the queue lock and returns the throttle delay to
// apply, or false if r was dropped.
func (l *Logger) push(r *Record) (int64, bool) {
	if l.state.ShutdownCalled.Load() {
		l.state.Dropped.Add(1)
		return 0, false
	}

	l.queueMu.Lock()
	// Shutdown sets the flag before its final drain takes queueMu, so a
	// record appended here is always seen by that drain.
	if l.state.ShutdownCalled.Load() {
		l.queueMu.Unlock()
		l.state.Dropped.Add(1)
		return 0, false
	}
	depth := len(l.queue) - l.head
	if depth >= l.limits.hard {
		// Shedding under overload wins over smoothing
		l.throttleUs = 0
		l.state.ThrottleUs.Store(0)
		l.queueMu.Unlock()
		l.state.Dropped.Add(1)
		return 0, false
	}
	l.queue = append(l.queue, r)
	l.adjustThrottle(depth + 1)
	sleepUs := l.throttleUs
	l.queueMu.Unlock()

	l.state.Enqueued.Add(1)
	return sleepUs, true
}

// adjustThrottle moves the producer delay with queue depth. Caller holds queueMu.
func (l *Logger) adjustThrottle(depth int) {
	lim := l.limits
	switch {
	case depth >= lim.slow:
		if l.throttleUs == 0 {
			l.throttleUs = lim.floorUs
		} else {
			l.throttleUs = min(l.throttleUs+lim.stepUs, lim.maxUs)
		}
	case depth <= lim.fast:
		l.throttleUs = max(l.throttleUs-lim.stepUs, 0)
	}
	l.state.ThrottleUs.Store(l.throttleUs)
}

// popBatch moves up to one batch of records into dst. Caller holds queueMu.
func (l *Logger) popBatch(dst []*Record) []*Record {
	n := min(len(l.queue)-l.head, l.limits.batch)
	if n <= 0 {
		return dst
	}
	dst = append(dst, l.queue[l.head:l.head+n]...)
	clear(l.queue[l.head : l.head+n])
	l.head += n

	switch {
	case l.head == len(l.queue):
		l.queue = l.queue[:0]
		l.head = 0
	case l.head >= 1024 && l.head*2 >= len(l.queue):
		remaining := copy(l.queue, l.queue[l.head:])
		clear(l.queue[remaining:])
		l.queue = l.queue[:remaining]
		l.head = 0
	}
	return dst
}

// drain dispatches queued records batch by batch until the queue is seen
// empty. Each batch is popped and dispatched while holding the sink lock, so
// records reach sinks in queue order and a rotation lands between batches.
// Before initialization drain does nothing unless forced.
func (l *Logger) drain(force bool) {
	if !force && !l.state.IsInitialized.Load() {
		return
	}

	var batch []*Record
	for {
		l.sinkMu.Lock()
		l.queueMu.Lock()
		batch = l.popBatch(batch[:0])
		l.queueMu.Unlock()

		if len(batch) == 0 {
			l.sinkMu.Unlock()
			return
		}

		active := l.filter.load()
		for _, r := range batch {
			l.dispatch(r, active)
		}
		for _, s := range l.sinks {
			if f, ok := s.(Flusher); ok {
				l.invoke(s, f.Flush)
			}
		}
		l.sinkMu.Unlock()
		clear(batch)
	}
}

// dispatch hands one record to every sink. Caller holds sinkMu.
// Print records bypass the filter and only reach print handlers.
func (l *Logger) dispatch(r *Record, active *filterState) {
	if r.IsPrint() {
		for _, s := range l.sinks {
			if p, ok := s.(PrintHandler); ok {
				l.invoke(s, func() { p.HandlePrint(r) })
			}
		}
		l.state.DispatchedPrints.Add(1)
		return
	}

	if !active.isLoggable(r.mask, r.severity) {
		l.state.Filtered.Add(1)
		return
	}
	for _, s := range l.sinks {
		l.invoke(s, func() { s.HandleLog(r) })
	}
	l.state.DispatchedLogs.Add(1)
}

// invoke runs a sink call, converting a panic into a diagnostic.
func (l *Logger) invoke(s Sink, call func()) {
	defer func() {
		if rec := recover(); rec != nil {
			l.internalLog("sink %T panicked: %v", s, rec)
		}
	}()
	call()
}

// QueueDepth returns the number of records waiting for dispatch.
func (l *Logger) QueueDepth() int {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	return len(l.queue) - l.head
}

// SetQueueLimits changes the fast, slow and hard thresholds.
func (l *Logger) SetQueueLimits(fast, slow, hard int) error {
	if hard <= 0 {
		return fmtErrorf("hard threshold must be positive: %d", hard)
	}
	if fast < 0 || fast > slow || slow > hard {
		return fmtErrorf("thresholds must satisfy 0 <= fast <= slow <= hard: %d, %d, %d", fast, slow, hard)
	}
	l.queueMu.Lock()
	l.limits.fast, l.limits.slow, l.limits.hard = fast, slow, hard
	l.queueMu.Unlock()
	return nil
}
