package mclog

import "time"

const defaultWorkerStopTimeout = 2 * time.Second

// TimerSet holds the tickers used by the worker loop
type TimerSet struct {
	heartbeatTicker *time.Ticker
	heartbeatChan   <-chan time.Time
}

// setupProcessingTimers creates the worker tickers from the current config
func (l *Logger) setupProcessingTimers() *TimerSet {
	timers := &TimerSet{}
	if interval := l.heartbeatInterval(); interval > 0 {
		timers.heartbeatTicker = time.NewTicker(interval)
		timers.heartbeatChan = timers.heartbeatTicker.C
	}
	return timers
}

// closeProcessingTimers stops all active tickers
func (l *Logger) closeProcessingTimers(timers *TimerSet) {
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
	}
}

// startWorker launches the dispatch goroutine if it is not running.
func (l *Logger) startWorker() {
	l.workerMu.Lock()
	defer l.workerMu.Unlock()
	if l.threaded.Load() {
		return
	}
	l.stop = make(chan struct{})
	l.workerDone = make(chan struct{})
	l.threaded.Store(true)
	go l.processLogs(l.stop, l.workerDone)
}

// processLogs is the worker loop. Every wake drains the queue to empty, so
// coalesced wakes lose nothing.
func (l *Logger) processLogs(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	l.threads.Register("logger")
	defer l.threads.Deregister()

	timers := l.setupProcessingTimers()
	defer l.closeProcessingTimers(timers)

	for {
		select {
		case <-stop:
			return
		case <-l.wake:
			l.drain(false)
		case <-timers.heartbeatChan:
			l.logHeartbeat()
			l.drain(false)
		}
	}
}

// signalWorker posts a wake without blocking. A pending wake already covers
// any records appended since.
func (l *Logger) signalWorker() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// ShutdownWorker stops the worker if running, switches to inline dispatch and
// force-drains whatever is still queued. Safe to call repeatedly.
func (l *Logger) ShutdownWorker(timeout ...time.Duration) error {
	l.workerMu.Lock()
	defer l.workerMu.Unlock()

	var err error
	if l.threaded.CompareAndSwap(true, false) {
		effectiveTimeout := defaultWorkerStopTimeout
		if len(timeout) > 0 && timeout[0] > 0 {
			effectiveTimeout = timeout[0]
		}

		close(l.stop)
		select {
		case <-l.workerDone:
		case <-time.After(effectiveTimeout):
			err = fmtErrorf("worker did not exit within timeout (%v)", effectiveTimeout)
		}
	}

	l.drain(true)
	return err
}

// Threaded reports whether a background worker owns dispatch.
func (l *Logger) Threaded() bool {
	return l.threaded.Load()
}
