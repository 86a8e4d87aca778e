package mclog

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/mclog/sanitizer"
)

// Formatter renders records as text lines. A Formatter reuses its buffer and
// must not be shared between goroutines; sinks call it under the sink lock.
type Formatter struct {
	buf       []byte
	sanitizer *sanitizer.Sanitizer
	color     bool
}

var (
	severeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// NewFormatter creates a formatter. A nil sanitizer writes messages as is.
func NewFormatter(san *sanitizer.Sanitizer, color bool) *Formatter {
	return &Formatter{
		buf:       make([]byte, 0, 512),
		sanitizer: san,
		color:     color,
	}
}

// FormatRecord renders
//
//	{timestamp} {severity char} [{pid}] {thread} {file}:{line} {function} - {message}
//
// without a trailing newline. The returned slice is valid until the next call.
func (f *Formatter) FormatRecord(r *Record) []byte {
	f.buf = f.buf[:0]
	f.buf = r.Time().Local().AppendFormat(f.buf, timestampLayout)
	f.buf = append(f.buf, ' ')
	f.appendSeverity(r.Severity())
	f.buf = append(f.buf, " ["...)
	f.buf = strconv.AppendInt(f.buf, int64(r.ProcessID()), 10)
	f.buf = append(f.buf, "] "...)
	f.buf = append(f.buf, r.ThreadName()...)
	f.buf = append(f.buf, ' ')
	f.buf = append(f.buf, r.FileName()...)
	f.buf = append(f.buf, ':')
	f.buf = strconv.AppendInt(f.buf, int64(r.Line()), 10)
	f.buf = append(f.buf, ' ')
	f.buf = append(f.buf, r.FunctionName()...)
	f.buf = append(f.buf, " - "...)
	f.appendMessage(r.Message())
	return f.buf
}

// FormatLine is FormatRecord with a trailing newline.
func (f *Formatter) FormatLine(r *Record) []byte {
	f.FormatRecord(r)
	f.buf = append(f.buf, '\n')
	return f.buf
}

func (f *Formatter) appendMessage(msg string) {
	if f.sanitizer != nil {
		f.buf = f.sanitizer.AppendSanitized(f.buf, msg)
		return
	}
	f.buf = append(f.buf, msg...)
}

func (f *Formatter) appendSeverity(level Severity) {
	c := SeverityChar(level)
	if !f.color {
		f.buf = append(f.buf, c)
		return
	}
	switch {
	case level >= SeverityEmerg && level <= SeverityErr:
		f.buf = append(f.buf, severeStyle.Render(string(c))...)
	case level == SeverityWarning:
		f.buf = append(f.buf, warningStyle.Render(string(c))...)
	case level == SeverityDebug:
		f.buf = append(f.buf, debugStyle.Render(string(c))...)
	default:
		f.buf = append(f.buf, c)
	}
}

// spewConfig renders composite values compactly on one line.
var spewConfig = &spew.ConfigState{
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// formatArgs joins args with spaces. Scalars are rendered directly, []byte as
// hex, and anything else through spew.
func formatArgs(args []any) string {
	var buf []byte
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendValue(buf, arg)
	}
	return string(buf)
}

func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, timestampLayout)
	case time.Duration:
		return append(buf, val.String()...)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	case []byte:
		return hex.AppendEncode(buf, val)
	default:
		return append(buf, spewConfig.Sprintf("%+v", val)...)
	}
}
