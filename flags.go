package mclog

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// FlagValues holds the logging flags registered on a flag set.
type FlagValues struct {
	fs *pflag.FlagSet

	Verbose      string
	LogLevel     string
	LogFile      string
	LogPath      string
	Syslog       string
	Quiet        int
	EnableWorker bool
}

// RegisterFlags adds the standard logging flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *FlagValues {
	v := &FlagValues{fs: fs}
	fs.StringVarP(&v.Verbose, "verbose", "v", defaultConfig.Categories,
		"Category expression, e.g. \"general,record,noupnp\"")
	fs.StringVar(&v.LogLevel, "loglevel", defaultConfig.Severity,
		"Severity threshold (emerg, alert, crit, err, warning, notice, info, debug)")
	fs.StringVar(&v.LogFile, "logfile", "", "Append log output to this file")
	fs.StringVar(&v.LogPath, "logpath", "", "Write rotating log files with this path prefix")
	fs.StringVar(&v.Syslog, "syslog", defaultConfig.SyslogFacility, "Syslog facility, or \"none\"")
	fs.CountVarP(&v.Quiet, "quiet", "q", "Silence console logs; repeat to silence prints too")
	fs.BoolVar(&v.EnableWorker, "enable-worker", defaultConfig.UseWorker, "Dispatch records on a background goroutine")
	return v
}

// Config returns defaults with every flag applied.
func (v *FlagValues) Config() (*Config, error) {
	return v.ApplyTo(DefaultConfig())
}

// ApplyTo copies base and overrides the fields whose flags were set on the
// command line. The result is validated.
func (v *FlagValues) ApplyTo(base *Config) (*Config, error) {
	cfg := base.Clone()
	changed := func(name string) bool {
		return v.fs == nil || v.fs.Changed(name)
	}

	if changed("verbose") {
		cfg.Categories = v.Verbose
	}
	if changed("loglevel") {
		cfg.Severity = strings.ToLower(strings.TrimSpace(v.LogLevel))
	}
	if changed("logfile") {
		cfg.LogFile = v.LogFile
	}
	if changed("logpath") {
		cfg.LogPathPrefix = v.LogPath
	}
	if changed("syslog") {
		cfg.SyslogFacility = v.Syslog
	}
	if changed("quiet") {
		cfg.Quiet = int64(min(v.Quiet, 2))
	}
	if changed("enable-worker") {
		cfg.UseWorker = v.EnableWorker
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CommandLineEcho renders the logger's effective settings as flags a child
// process can be started with to log the same way. The log file is left out
// so children do not interleave writes into the parent's file.
func (l *Logger) CommandLineEcho() string {
	mask := l.CategoryMask()
	expr := FormatCategoryMask(mask)
	if mask != CategoryNone && mask&CategoryGeneral == 0 {
		// Parsed expressions are applied on top of general
		expr = "nogeneral," + expr
	}

	args := []string{
		"--verbose", expr,
		"--loglevel", FormatSeverity(l.SeverityThreshold()),
		"--enable-worker=" + strconv.FormatBool(l.Threaded()),
	}

	dest := l.Destinations()
	if dest.LogPathPrefix != "" {
		args = append(args, "--logpath", dest.LogPathPrefix)
	}
	if dest.SyslogFacility != "" && !strings.EqualFold(dest.SyslogFacility, "none") {
		args = append(args, "--syslog", dest.SyslogFacility)
	}
	for range l.quietLevel() {
		args = append(args, "--quiet")
	}
	return strings.Join(args, " ")
}

// quietLevel returns the console's current quiet level, or the configured one
// when no console is installed.
func (l *Logger) quietLevel() int {
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()
	level := int(l.getConfig().Quiet)
	if l.console != nil {
		level = int(l.console.quiet.Load())
	}
	return min(max(level, 0), 2)
}
