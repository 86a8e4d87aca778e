package mclog

import "io"

// Builder provides a fluent API for building a configured Logger.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg    *Config
	out    io.Writer
	errOut io.Writer
	sinks  []Sink
	err    error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()
	if b.out != nil || b.errOut != nil {
		if err := logger.SetConsoleOutput(b.out, b.errOut); err != nil {
			return nil, err
		}
	}
	for _, s := range b.sinks {
		if err := logger.AddSink(s); err != nil {
			return nil, err
		}
	}

	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}
	return logger, nil
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() *Config {
	return b.cfg.Clone()
}

// Categories sets the category expression, validating it immediately.
func (b *Builder) Categories(expr string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseCategoryExpression(expr); err != nil {
		b.err = err
		return b
	}
	b.cfg.Categories = expr
	return b
}

// Severity sets the threshold by name.
func (b *Builder) Severity(name string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ResolveSeverity(name); err != nil {
		b.err = err
		return b
	}
	b.cfg.Severity = name
	return b
}

// SyslogFacility enables the syslog sink for a facility name.
func (b *Builder) SyslogFacility(facility string) *Builder {
	b.cfg.SyslogFacility = facility
	return b
}

// LogFile enables the append-only file sink.
func (b *Builder) LogFile(path string) *Builder {
	b.cfg.LogFile = path
	return b
}

// LogPathPrefix enables the rotating path sink.
func (b *Builder) LogPathPrefix(prefix string) *Builder {
	b.cfg.LogPathPrefix = prefix
	return b
}

// UseWorker selects background dispatch.
func (b *Builder) UseWorker(enable bool) *Builder {
	b.cfg.UseWorker = enable
	return b
}

// QueueLimits sets the fast, slow and hard thresholds.
func (b *Builder) QueueLimits(fast, slow, hard int64) *Builder {
	b.cfg.QueueFast, b.cfg.QueueSlow, b.cfg.QueueHard = fast, slow, hard
	return b
}

// BatchSize sets the dispatch batch size.
func (b *Builder) BatchSize(size int64) *Builder {
	b.cfg.BatchSize = size
	return b
}

// Quiet sets the console quiet level.
func (b *Builder) Quiet(level int64) *Builder {
	b.cfg.Quiet = level
	return b
}

// ConsoleColor colors severity codes on the console.
func (b *Builder) ConsoleColor(enable bool) *Builder {
	b.cfg.ConsoleColor = enable
	return b
}

// ConsoleOutput redirects console and diagnostic output.
func (b *Builder) ConsoleOutput(out, errOut io.Writer) *Builder {
	b.out, b.errOut = out, errOut
	return b
}

// HeartbeatIntervalS sets the heartbeat interval, 0 disables it.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// WatchLogFile reopens the log file when it is moved or removed.
func (b *Builder) WatchLogFile(enable bool) *Builder {
	b.cfg.WatchLogFile = enable
	return b
}

// HandleSighup rotates all sinks on SIGHUP.
func (b *Builder) HandleSighup(enable bool) *Builder {
	b.cfg.HandleSighup = enable
	return b
}

// Sink adds a custom sink installed after the built-in ones.
func (b *Builder) Sink(s Sink) *Builder {
	b.sinks = append(b.sinks, s)
	return b
}

// Example usage:
// logger, err := mclog.NewBuilder().
//
//	Categories("general,record,noupnp").
//	Severity("debug").
//	LogFile("/var/log/mythbackend.log").
//	UseWorker(true).
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Info(mclog.CategoryGeneral, "Logger initialized successfully")
//
// }
