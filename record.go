package mclog

import (
	"os"
	"time"
)

// Record is one log or print event. It is immutable once built; sinks may
// read it from any goroutine.
type Record struct {
	time       time.Time
	pid        int
	tid        uint64
	threadName string
	mask       Category
	severity   Severity
	file       Handle
	function   Handle
	line       int32
	message    string
	names      *Interner
}

// Time is the UTC creation time with microsecond resolution.
func (r *Record) Time() time.Time { return r.time }

// ProcessID returns the emitting process id, or the flush sentinel for print
// records that request an immediate flush.
func (r *Record) ProcessID() int { return r.pid }

// ThreadID returns the goroutine id of the emitter.
func (r *Record) ThreadID() uint64 { return r.tid }

// ThreadName is the emitter's display name as of emission.
func (r *Record) ThreadName() string { return r.threadName }

func (r *Record) Category() Category { return r.mask }
func (r *Record) Severity() Severity { return r.severity }
func (r *Record) Line() int          { return int(r.line) }
func (r *Record) Message() string    { return r.message }
func (r *Record) FileHandle() Handle { return r.file }

func (r *Record) FunctionHandle() Handle { return r.function }

// FileName resolves the interned source file, empty when unknown.
func (r *Record) FileName() string {
	if r.names == nil {
		return ""
	}
	return r.names.Resolve(r.file)
}

// FunctionName resolves the interned function name, empty when unknown.
func (r *Record) FunctionName() string {
	if r.names == nil {
		return ""
	}
	return r.names.Resolve(r.function)
}

// IsPrint reports whether the record carries console text rather than a trace line.
func (r *Record) IsPrint() bool { return r.line < 0 }

// IsFlush reports whether a print record asked for its output to be flushed.
func (r *Record) IsFlush() bool { return r.pid == flushProcessID }

// newLogRecord builds a structured log record on the calling goroutine,
// snapshotting its thread name.
func (l *Logger) newLogRecord(mask Category, level Severity, file string, line int, function, message string) *Record {
	if line < 0 {
		line = 0
	}
	if line > maxRecordLine {
		line = maxRecordLine
	}
	info := l.threads.current()
	return &Record{
		time:       now(),
		pid:        os.Getpid(),
		tid:        info.ThreadID,
		threadName: info.Name,
		mask:       mask,
		severity:   level,
		file:       l.names.Intern(file),
		function:   l.names.Intern(function),
		line:       int32(line),
		message:    message,
		names:      l.names,
	}
}

// newPrintRecord builds a print record; flush is carried by the process id sentinel.
func (l *Logger) newPrintRecord(message string, flush bool) *Record {
	pid := os.Getpid()
	if flush {
		pid = flushProcessID
	}
	info := l.threads.current()
	return &Record{
		time:       now(),
		pid:        pid,
		tid:        info.ThreadID,
		threadName: info.Name,
		mask:       CategoryNone,
		severity:   SeverityAny,
		line:       -1,
		message:    message,
		names:      l.names,
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
