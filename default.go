package mclog

import (
	"fmt"
	"sync"
	"time"
)

// Global instance for package-level functions
var (
	defaultMu     sync.RWMutex
	defaultLogger = NewLogger()
)

// Default returns the process-wide logger used by the package-level functions.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger and returns the previous one.
func SetDefault(l *Logger) *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultLogger
	defaultLogger = l
	return prev
}

// InitializeLogging configures the default logger. An empty logFile or
// logPathPrefix, and a facility of "none", leave that sink out.
func InitializeLogging(mask Category, level Severity, syslogFacility string, useWorker bool, logFile, logPathPrefix string) error {
	return Default().Initialize(mask, level, Destinations{
		SyslogFacility: syslogFacility,
		LogFile:        logFile,
		LogPathPrefix:  logPathPrefix,
	}, useWorker)
}

// ShutdownLogging drains and closes the default logger
func ShutdownLogging(timeout ...time.Duration) error {
	return Default().Shutdown(timeout...)
}

// WillLog reports whether the default logger accepts records of level in
// every category of mask.
func WillLog(mask Category, level Severity) bool {
	return Default().IsLoggable(mask, level)
}

// MightLog reports whether the default logger accepts records of level in
// any category of mask.
func MightLog(mask Category, level Severity) bool {
	return Default().IsPossiblyLoggable(mask, level)
}

// LogLine queues a record with explicit source location on the default logger
func LogLine(mask Category, level Severity, file string, line int, function, message string) {
	Default().LogLine(mask, level, file, line, function, message)
}

// PrintLine queues console text on the default logger
func PrintLine(message string, flush bool) {
	Default().PrintLine(message, flush)
}

// Log logs args at the caller's location
func Log(mask Category, level Severity, args ...any) {
	l := Default()
	if l.IsLoggable(mask, level) {
		l.Output(2, mask, level, formatArgs(args))
	}
}

// Logf formats and logs at the caller's location
func Logf(mask Category, level Severity, format string, args ...any) {
	l := Default()
	if l.IsLoggable(mask, level) {
		l.Output(2, mask, level, fmt.Sprintf(format, args...))
	}
}

// SetSeverity changes the default logger's threshold and returns the previous one
func SetSeverity(level Severity) Severity {
	return Default().SetSeverityThreshold(level)
}

// SetCategories changes the default logger's category mask and returns the previous one
func SetCategories(mask Category) Category {
	return Default().SetCategoryMask(mask)
}

// RegisterThreadName names the calling goroutine
func RegisterThreadName(name string) string {
	return Default().RegisterThreadName(name)
}

// RenameThread renames the calling goroutine
func RenameThread(name string) string {
	return Default().RenameThread(name)
}

// DeregisterThreadName forgets the calling goroutine
func DeregisterThreadName() string {
	return Default().DeregisterThreadName()
}

// CommandLineEcho renders the default logger's settings as child process flags
func CommandLineEcho() string {
	return Default().CommandLineEcho()
}

// RotateLogs rotates every sink of the default logger
func RotateLogs() {
	Default().RotateLogs()
}
