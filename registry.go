package mclog

import (
	"errors"
	"strings"
	"sync"
)

var (
	// ErrUnknownCategory is returned when a category token is not registered
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownSeverity is returned when a severity name is not registered
	ErrUnknownSeverity = errors.New("unknown severity")
	// ErrNegatedExclusive is returned for "no"-prefixed exclusive categories such as "noall"
	ErrNegatedExclusive = errors.New("exclusive category cannot be negated")
	// ErrEmptyExpression is returned when a category expression has no tokens
	ErrEmptyExpression = errors.New("empty category expression")
)

// Entry is one registered name in a Registry.
type Entry[V comparable] struct {
	Name     string
	Value    V
	Additive bool // OR'd into a running mask; false replaces the mask
	Char     byte // short display code, zero when unused
	Help     string
}

// Registry is an immutable name/value table built once and then only read.
type Registry[V comparable] struct {
	entries []Entry[V]
	byName  map[string]int
	byValue map[V]int
}

func newRegistry[V comparable](entries []Entry[V]) *Registry[V] {
	r := &Registry[V]{
		entries: entries,
		byName:  make(map[string]int, len(entries)),
		byValue: make(map[V]int, len(entries)),
	}
	for i, e := range entries {
		r.byName[strings.ToLower(e.Name)] = i
		// First registration wins for aliases sharing a value
		if _, exists := r.byValue[e.Value]; !exists {
			r.byValue[e.Value] = i
		}
	}
	return r
}

// Lookup finds an entry by name, ignoring case and surrounding whitespace.
func (r *Registry[V]) Lookup(name string) (Entry[V], bool) {
	i, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry[V]{}, false
	}
	return r.entries[i], true
}

// ByValue finds the first entry registered with the value.
func (r *Registry[V]) ByValue(v V) (Entry[V], bool) {
	i, ok := r.byValue[v]
	if !ok {
		return Entry[V]{}, false
	}
	return r.entries[i], true
}

// Entries returns a copy of all entries in registration order.
func (r *Registry[V]) Entries() []Entry[V] {
	out := make([]Entry[V], len(r.entries))
	copy(out, r.entries)
	return out
}

// Categories returns the process-wide category registry.
var Categories = sync.OnceValue(func() *Registry[Category] {
	return newRegistry([]Entry[Category]{
		{Name: "all", Value: CategoryAll, Help: "ALL available debug output"},
		{Name: "most", Value: CategoryMost, Help: "All categories except timestamp, frame, refcount, gpuaudio and gpuvideo"},
		{Name: "none", Value: CategoryNone, Help: "NO debug output"},
		{Name: "general", Value: CategoryGeneral, Additive: true, Help: "General info"},
		{Name: "record", Value: CategoryRecord, Additive: true, Help: "Recording related messages"},
		{Name: "playback", Value: CategoryPlayback, Additive: true, Help: "Playback related messages"},
		{Name: "channel", Value: CategoryChannel, Additive: true, Help: "Channel related messages"},
		{Name: "osd", Value: CategoryOSD, Additive: true, Help: "On-Screen Display related messages"},
		{Name: "file", Value: CategoryFile, Additive: true, Help: "File and AutoExpire related messages"},
		{Name: "schedule", Value: CategorySchedule, Additive: true, Help: "Scheduling related messages"},
		{Name: "network", Value: CategoryNetwork, Additive: true, Help: "Network protocol related messages"},
		{Name: "commflag", Value: CategoryCommFlag, Additive: true, Help: "Commercial detection related messages"},
		{Name: "audio", Value: CategoryAudio, Additive: true, Help: "Audio related messages"},
		{Name: "libav", Value: CategoryLibAV, Additive: true, Help: "Enables libav debugging"},
		{Name: "jobqueue", Value: CategoryJobQueue, Additive: true, Help: "JobQueue related messages"},
		{Name: "siparser", Value: CategorySIParser, Additive: true, Help: "Siparser related messages"},
		{Name: "eit", Value: CategoryEIT, Additive: true, Help: "EIT related messages"},
		{Name: "vbi", Value: CategoryVBI, Additive: true, Help: "VBI related messages"},
		{Name: "database", Value: CategoryDatabase, Additive: true, Help: "Display all SQL commands executed"},
		{Name: "dsmcc", Value: CategoryDSMCC, Additive: true, Help: "DSMCC carousel related messages"},
		{Name: "mheg", Value: CategoryMHEG, Additive: true, Help: "MHEG debugging messages"},
		{Name: "upnp", Value: CategoryUPnP, Additive: true, Help: "UPnP debugging messages"},
		{Name: "socket", Value: CategorySocket, Additive: true, Help: "socket debugging messages"},
		{Name: "xmltv", Value: CategoryXMLTV, Additive: true, Help: "xmltv output and related messages"},
		{Name: "dvbcam", Value: CategoryDVBCAM, Additive: true, Help: "DVB CAM debugging messages"},
		{Name: "media", Value: CategoryMedia, Additive: true, Help: "Media Manager debugging messages"},
		{Name: "idle", Value: CategoryIdle, Additive: true, Help: "System idle messages"},
		{Name: "channelscan", Value: CategoryChannelScan, Additive: true, Help: "Channel Scanning messages"},
		{Name: "gui", Value: CategoryGUI, Additive: true, Help: "GUI related messages"},
		{Name: "system", Value: CategorySystem, Additive: true, Help: "External executable related messages"},
		{Name: "timestamp", Value: CategoryTimestamp, Additive: true, Help: "Conditional data driven messages"},
		{Name: "process", Value: CategoryProcess, Additive: true, Help: "MPEG2Fix processing messages"},
		{Name: "frame", Value: CategoryFrame, Additive: true, Help: "MPEG2Fix frame messages"},
		{Name: "rplxqueue", Value: CategoryRplxQueue, Additive: true, Help: "MPEG2Fix Replex Queue messages"},
		{Name: "decode", Value: CategoryDecode, Additive: true, Help: "MPEG2Fix Decode messages"},
		{Name: "gpu", Value: CategoryGPU, Additive: true, Help: "GPU OpenGL driver messages"},
		{Name: "gpuaudio", Value: CategoryGPUAudio, Additive: true, Help: "GPU audio processing messages"},
		{Name: "gpuvideo", Value: CategoryGPUVideo, Additive: true, Help: "GPU video processing messages"},
		{Name: "refcount", Value: CategoryRefCount, Additive: true, Help: "Reference Count messages"},
		{Name: "http", Value: CategoryHTTP, Additive: true, Help: "HTTP Server messages"},
		{Name: "lirc", Value: CategoryLIRC, Additive: true, Help: "LIRC and remote control messages"},
		{Name: "logging", Value: CategoryLogging, Additive: true, Help: "Messages about the logging core itself"},
	})
})

// Severities returns the process-wide severity registry.
var Severities = sync.OnceValue(func() *Registry[Severity] {
	return newRegistry([]Entry[Severity]{
		{Name: "any", Value: SeverityAny, Char: ' ', Help: "Any severity"},
		{Name: "emerg", Value: SeverityEmerg, Char: '!', Help: "Emergency"},
		{Name: "alert", Value: SeverityAlert, Char: 'A', Help: "Alert"},
		{Name: "crit", Value: SeverityCrit, Char: 'C', Help: "Critical"},
		{Name: "err", Value: SeverityErr, Char: 'E', Help: "Error"},
		{Name: "warning", Value: SeverityWarning, Char: 'W', Help: "Warning"},
		{Name: "notice", Value: SeverityNotice, Char: 'N', Help: "Notice"},
		{Name: "info", Value: SeverityInfo, Char: 'I', Help: "Informational"},
		{Name: "debug", Value: SeverityDebug, Char: 'D', Help: "Debug"},
		{Name: "unknown", Value: SeverityUnknown, Char: '-', Help: "Unknown"},
	})
})

// ResolveCategory returns the mask registered under name.
func ResolveCategory(name string) (Category, error) {
	e, ok := Categories().Lookup(name)
	if !ok {
		return CategoryNone, fmtErrorf("%w: %q", ErrUnknownCategory, name)
	}
	return e.Value, nil
}

// ResolveSeverity returns the level registered under name.
func ResolveSeverity(name string) (Severity, error) {
	e, ok := Severities().Lookup(name)
	if !ok {
		return SeverityUnknown, fmtErrorf("%w: %q", ErrUnknownSeverity, name)
	}
	return e.Value, nil
}

// ParseSeverityName is ResolveSeverity under the facade name.
func ParseSeverityName(text string) (Severity, error) {
	return ResolveSeverity(text)
}

// CategoryName returns the registered name of an exact mask value, or the
// comma separated names of its bits.
func CategoryName(mask Category) string {
	if e, ok := Categories().ByValue(mask); ok {
		return e.Name
	}
	return FormatCategoryMask(mask)
}

// FormatCategoryMask renders a mask as a comma separated category expression
// that ParseCategoryExpression accepts.
func FormatCategoryMask(mask Category) string {
	switch mask {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	case CategoryMost:
		return "most"
	}

	var names []string
	for _, e := range Categories().entries {
		if e.Additive && mask&e.Value == e.Value {
			names = append(names, e.Name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// FormatSeverity returns the lower case name of level.
func FormatSeverity(level Severity) string {
	if e, ok := Severities().ByValue(level); ok {
		return e.Name
	}
	return "unknown"
}

// SeverityChar returns the one character code shown in text sinks.
func SeverityChar(level Severity) byte {
	if e, ok := Severities().ByValue(level); ok {
		return e.Char
	}
	return '-'
}

// CategoryExpr is the result of parsing a category expression.
// Subtractive holds bits explicitly turned off, Additive the bits turned on.
type CategoryExpr struct {
	Subtractive Category
	Additive    Category
}

// Apply merges the expression into a base mask.
func (e CategoryExpr) Apply(base Category) Category {
	return (base &^ e.Subtractive) | e.Additive
}

// ParseCategoryExpression folds comma separated tokens left to right.
// Additive names set their bit, "no"-prefixed names clear it and record it
// as subtractive, exclusive names ("all", "none", "most") reset both masks.
// Any unknown token fails the whole expression and returns a zero value.
func ParseCategoryExpression(text string) (CategoryExpr, error) {
	reg := Categories()
	var expr CategoryExpr
	seen := false

	for _, raw := range strings.Split(text, ",") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			continue
		}
		seen = true

		if e, ok := reg.Lookup(token); ok {
			if e.Additive {
				expr.Additive |= e.Value
				expr.Subtractive &^= e.Value
			} else {
				expr.Additive = e.Value
				expr.Subtractive = CategoryAll &^ e.Value
			}
			continue
		}

		if name, found := strings.CutPrefix(token, "no"); found {
			if e, ok := reg.Lookup(name); ok {
				if !e.Additive {
					return CategoryExpr{}, fmtErrorf("%w: %q", ErrNegatedExclusive, token)
				}
				expr.Additive &^= e.Value
				expr.Subtractive |= e.Value
				continue
			}
		}

		return CategoryExpr{}, fmtErrorf("%w: %q", ErrUnknownCategory, token)
	}

	if !seen {
		return CategoryExpr{}, fmtErrorf("%w", ErrEmptyExpression)
	}
	return expr, nil
}

// ParseCategoryExpressionInto writes the parsed masks only when the whole
// expression is valid, leaving the outputs untouched otherwise.
func ParseCategoryExpressionInto(text string, subtractive, additive *Category) error {
	expr, err := ParseCategoryExpression(text)
	if err != nil {
		return err
	}
	*subtractive = expr.Subtractive
	*additive = expr.Additive
	return nil
}

func (s Severity) String() string { return FormatSeverity(s) }

func (c Category) String() string { return FormatCategoryMask(c) }
