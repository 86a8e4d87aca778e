package mclog

import "fmt"

// LogLine queues a structured record with explicit source location. It is a
// no-op when the filter rejects mask and level.
func (l *Logger) LogLine(mask Category, level Severity, file string, line int, function, message string) {
	if !l.IsLoggable(mask, level) {
		return
	}
	l.enqueue(l.newLogRecord(mask, level, file, line, function, message))
}

// PrintLine queues console text. Prints bypass the filter; flush asks the
// console to flush right after writing it.
func (l *Logger) PrintLine(message string, flush bool) {
	l.enqueue(l.newPrintRecord(message, flush))
}

// Printf formats and queues console text.
func (l *Logger) Printf(format string, args ...any) {
	l.PrintLine(fmt.Sprintf(format, args...), false)
}

// Output queues message with the source location calldepth frames up;
// calldepth 1 is the caller of Output.
func (l *Logger) Output(calldepth int, mask Category, level Severity, message string) {
	if !l.IsLoggable(mask, level) {
		return
	}
	file, function, line := callerInfo(calldepth)
	l.enqueue(l.newLogRecord(mask, level, file, line, function, message))
}

// Log joins args with spaces and logs them at the caller's location.
func (l *Logger) Log(mask Category, level Severity, args ...any) {
	if !l.IsLoggable(mask, level) {
		return
	}
	l.Output(2, mask, level, formatArgs(args))
}

// Logf formats and logs at the caller's location.
func (l *Logger) Logf(mask Category, level Severity, format string, args ...any) {
	if !l.IsLoggable(mask, level) {
		return
	}
	l.Output(2, mask, level, fmt.Sprintf(format, args...))
}

// Error logs args at error severity.
func (l *Logger) Error(mask Category, args ...any) {
	if l.IsLoggable(mask, SeverityErr) {
		l.Output(2, mask, SeverityErr, formatArgs(args))
	}
}

// Warn logs args at warning severity.
func (l *Logger) Warn(mask Category, args ...any) {
	if l.IsLoggable(mask, SeverityWarning) {
		l.Output(2, mask, SeverityWarning, formatArgs(args))
	}
}

// Notice logs args at notice severity.
func (l *Logger) Notice(mask Category, args ...any) {
	if l.IsLoggable(mask, SeverityNotice) {
		l.Output(2, mask, SeverityNotice, formatArgs(args))
	}
}

// Info logs args at info severity.
func (l *Logger) Info(mask Category, args ...any) {
	if l.IsLoggable(mask, SeverityInfo) {
		l.Output(2, mask, SeverityInfo, formatArgs(args))
	}
}

// Debug logs args at debug severity.
func (l *Logger) Debug(mask Category, args ...any) {
	if l.IsLoggable(mask, SeverityDebug) {
		l.Output(2, mask, SeverityDebug, formatArgs(args))
	}
}

// RegisterThreadName names the calling goroutine and returns its previous name.
func (l *Logger) RegisterThreadName(name string) string {
	return l.threads.Register(name)
}

// RenameThread renames the calling goroutine, registering it if needed.
func (l *Logger) RenameThread(name string) string {
	return l.threads.Rename(name)
}

// DeregisterThreadName forgets the calling goroutine and returns its name.
func (l *Logger) DeregisterThreadName() string {
	return l.threads.Deregister()
}

// ThreadName returns the calling goroutine's registered name.
func (l *Logger) ThreadName() string {
	return l.threads.Name()
}

// LookupThread returns the entry for a goroutine id.
func (l *Logger) LookupThread(id uint64) ThreadInfo {
	return l.threads.Lookup(id)
}
