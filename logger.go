package mclog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/lixenwraith/mclog/sanitizer"
)

// Destinations selects the optional sinks installed by Initialize. Empty
// fields, and a facility of "none", install nothing.
type Destinations struct {
	SyslogFacility string
	LogFile        string
	LogPathPrefix  string
}

// queueLimits bound the pending queue and shape producer throttling.
type queueLimits struct {
	fast, slow, hard int
	batch            int
	floorUs, stepUs  int64
	maxUs            int64
}

// Logger is the core struct that encapsulates all logger functionality
type Logger struct {
	currentConfig atomic.Pointer[Config]
	state         State
	initMu        sync.Mutex
	filter        filter

	// Pending records and throttle, guarded by queueMu
	queueMu    sync.Mutex
	queue      []*Record
	head       int
	throttleUs int64
	limits     queueLimits

	// Sinks and destination metadata, guarded by sinkMu
	sinkMu       sync.Mutex
	sinks        []Sink
	console      *ConsoleSink
	consoleOut   io.Writer
	consoleErr   io.Writer
	destinations Destinations

	threads *ThreadRegistry
	names   *Interner

	// Background worker
	workerMu   sync.Mutex
	threaded   atomic.Bool
	wake       chan struct{}
	stop       chan struct{}
	workerDone chan struct{}

	// Internal diagnostics
	diagMu      sync.Mutex
	diagOut     io.Writer
	diagLimiter *rate.Limiter

	watchCancel context.CancelFunc
	watchDone   sync.WaitGroup
}

// NewLogger creates a new Logger instance with default settings
func NewLogger() *Logger {
	l := &Logger{
		threads:     NewThreadRegistry(),
		names:       NewInterner(),
		wake:        make(chan struct{}, 1),
		diagLimiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	cfg := DefaultConfig()
	l.currentConfig.Store(cfg)
	l.limits = limitsFromConfig(cfg)
	l.state.StartTime.Store(time.Now())
	return l
}

func limitsFromConfig(cfg *Config) queueLimits {
	return queueLimits{
		fast:    int(cfg.QueueFast),
		slow:    int(cfg.QueueSlow),
		hard:    int(cfg.QueueHard),
		batch:   int(cfg.BatchSize),
		floorUs: cfg.ThrottleFloorUs,
		stepUs:  cfg.ThrottleStepUs,
		maxUs:   cfg.ThrottleMaxUs,
	}
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load()
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// ApplyConfig validates cfg and initializes the logger from it: filter from
// the category expression and severity name, destinations, worker mode, and
// the optional watchers. A logger is configured once; later calls fail.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	mask, err := cfg.CategoryMask()
	if err != nil {
		return err
	}
	level, err := ResolveSeverity(cfg.Severity)
	if err != nil {
		return err
	}

	l.initMu.Lock()
	if l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		l.initMu.Unlock()
		return fmtErrorf("logger already configured")
	}
	l.currentConfig.Store(cfg.Clone())
	l.queueMu.Lock()
	l.limits = limitsFromConfig(cfg)
	l.queueMu.Unlock()
	l.initMu.Unlock()

	return l.Initialize(mask, level, Destinations{
		SyslogFacility: cfg.SyslogFacility,
		LogFile:        cfg.LogFile,
		LogPathPrefix:  cfg.LogPathPrefix,
	}, cfg.UseWorker)
}

// Initialize installs sinks, sets the filter and optionally starts the
// background worker. The console sink is always installed; the file, path
// and syslog sinks only for non-empty destinations. A sink that cannot open
// its destination is installed inert. Records queued before Initialize are
// dispatched once it completes.
func (l *Logger) Initialize(mask Category, threshold Severity, dest Destinations, useWorker bool) error {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}
	if l.state.IsInitialized.Load() {
		return fmtErrorf("logger already initialized")
	}

	cfg := l.getConfig()
	var san *sanitizer.Sanitizer
	if cfg.Sanitize {
		san = sanitizer.New().Policy(sanitizer.PolicyTxt)
	}
	plain := NewFormatter(san, false)

	l.sinkMu.Lock()
	console := NewConsoleSink(l.consoleOut, l.consoleErr, int(cfg.Quiet), NewFormatter(san, cfg.ConsoleColor))
	sinks := []Sink{console}
	if dest.LogFile != "" {
		sinks = append(sinks, NewFileSink(dest.LogFile, plain, l.internalLog))
	}
	if dest.LogPathPrefix != "" {
		sinks = append(sinks, NewRotatingPathSink(dest.LogPathPrefix, plain, l.internalLog))
	}
	if dest.SyslogFacility != "" && !strings.EqualFold(dest.SyslogFacility, "none") {
		sinks = append(sinks, NewSyslogSink(dest.SyslogFacility, cfg.SyslogIdentifier, plain, l.internalLog))
	}
	// Sinks added before Initialize follow the built-in ones
	l.sinks = append(sinks, l.sinks...)
	l.console = console
	l.destinations = dest
	l.sinkMu.Unlock()

	l.filter.init(mask, threshold)
	l.state.IsInitialized.Store(true)

	if useWorker {
		l.startWorker()
	}
	l.startWatchers(cfg, dest)

	if l.threaded.Load() {
		l.signalWorker()
	} else {
		l.drain(false)
	}
	return nil
}

// SetConsoleOutput redirects the console sink and internal diagnostics.
// It must be called before Initialize; nil keeps the process streams.
func (l *Logger) SetConsoleOutput(out, errOut io.Writer) error {
	l.initMu.Lock()
	defer l.initMu.Unlock()
	if l.state.IsInitialized.Load() {
		return fmtErrorf("console output must be set before initialization")
	}
	l.sinkMu.Lock()
	l.consoleOut, l.consoleErr = out, errOut
	l.sinkMu.Unlock()
	l.diagMu.Lock()
	l.diagOut = errOut
	l.diagMu.Unlock()
	return nil
}

// SetQuiet changes the console quiet level at runtime.
func (l *Logger) SetQuiet(level int) {
	l.sinkMu.Lock()
	if l.console != nil {
		l.console.SetQuiet(level)
	}
	l.sinkMu.Unlock()
}

// AddSink appends a sink. It may be called before or after Initialize.
func (l *Logger) AddSink(s Sink) error {
	if s == nil {
		return fmtErrorf("sink cannot be nil")
	}
	if l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}
	l.sinkMu.Lock()
	l.sinks = append(l.sinks, s)
	l.sinkMu.Unlock()
	return nil
}

// Destinations returns the destinations passed to Initialize.
func (l *Logger) Destinations() Destinations {
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()
	return l.destinations
}

// RotateLogs asks every sink to reopen or switch its destination. Records
// dispatched in later batches go to the new destination.
func (l *Logger) RotateLogs() {
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()
	for _, s := range l.sinks {
		if r, ok := s.(Rotator); ok {
			l.invoke(s, r.RotateLogs)
		}
	}
	l.state.Rotations.Add(1)
}

// Shutdown stops watchers and the worker, dispatches everything still
// queued, then flushes and closes all sinks. Repeated calls are no-ops.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	l.stopWatchers()
	finalErr := l.ShutdownWorker(timeout...)

	l.sinkMu.Lock()
	for _, s := range l.sinks {
		if f, ok := s.(Flusher); ok {
			l.invoke(s, f.Flush)
		}
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				finalErr = combineErrors(finalErr, fmtErrorf("failed to close sink %T: %w", s, err))
			}
		}
	}
	l.sinks = nil
	l.console = nil
	l.sinkMu.Unlock()

	l.state.IsInitialized.Store(false)
	return finalErr
}

// internalLog writes a rate limited diagnostic about the logger itself to
// the console error stream.
func (l *Logger) internalLog(format string, args ...any) {
	if !l.getConfig().InternalErrors {
		return
	}
	if !l.diagLimiter.Allow() {
		l.state.SuppressedDiagnostics.Add(1)
		return
	}

	if !strings.HasPrefix(format, "mclog: ") {
		format = "mclog: " + format
	}
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}

	l.diagMu.Lock()
	defer l.diagMu.Unlock()
	w := l.diagOut
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format, args...)
}

// Threads exposes the logger's thread registry.
func (l *Logger) Threads() *ThreadRegistry { return l.threads }

// Names exposes the logger's string interner.
func (l *Logger) Names() *Interner { return l.names }
