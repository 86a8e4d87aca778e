package mclog

import (
	"bufio"
	"io"
	"os"
	"sync/atomic"
)

// Sink is an output destination for records. HandleLog is the only
// mandatory capability; the rest are discovered through the optional
// interfaces below and default to no-ops.
//
// Sinks are invoked only from the dispatch path while the logger holds its
// sink lock, so implementations need no locking of their own unless they are
// also read from elsewhere.
type Sink interface {
	HandleLog(r *Record)
}

// PrintHandler receives print records.
type PrintHandler interface {
	HandlePrint(r *Record)
}

// Rotator reopens or switches the sink's destination.
type Rotator interface {
	RotateLogs()
}

// Flusher pushes buffered output to the destination.
type Flusher interface {
	Flush()
}

// Inerter is implemented by sinks that can end up disabled after a failed
// construction or I/O error.
type Inerter interface {
	Inert() bool
}

// reporter receives best-effort diagnostics from sinks.
type reporter func(format string, args ...any)

func (rep reporter) printf(format string, args ...any) {
	if rep != nil {
		rep(format, args...)
	}
}

// ConsoleSink writes formatted log lines to the error stream and raw print
// text to the output stream.
//
// Quiet level 0 writes both, level 1 suppresses log lines, level 2 also
// suppresses prints.
type ConsoleSink struct {
	out    *bufio.Writer
	errOut *bufio.Writer
	fmt    *Formatter
	quiet  atomic.Int32
}

// NewConsoleSink creates a console sink over the given writers. Nil writers
// default to os.Stdout and os.Stderr.
func NewConsoleSink(out, errOut io.Writer, quiet int, f *Formatter) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	if f == nil {
		f = NewFormatter(nil, false)
	}
	c := &ConsoleSink{
		out:    bufio.NewWriter(out),
		errOut: bufio.NewWriter(errOut),
		fmt:    f,
	}
	c.quiet.Store(int32(quiet))
	return c
}

// SetQuiet changes the quiet level.
func (c *ConsoleSink) SetQuiet(level int) {
	c.quiet.Store(int32(level))
}

func (c *ConsoleSink) HandleLog(r *Record) {
	if c.quiet.Load() >= 1 {
		return
	}
	_, _ = c.errOut.Write(c.fmt.FormatLine(r))
}

// HandlePrint writes the message as is; callers supply their own newlines.
func (c *ConsoleSink) HandlePrint(r *Record) {
	if c.quiet.Load() >= 2 {
		return
	}
	_, _ = c.out.WriteString(r.Message())
	if r.IsFlush() {
		_ = c.out.Flush()
	}
}

func (c *ConsoleSink) Flush() {
	_ = c.out.Flush()
	_ = c.errOut.Flush()
}
