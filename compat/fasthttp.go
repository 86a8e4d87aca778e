package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/mclog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter routes fasthttp server logging into an mclog.Logger
type FastHTTPAdapter struct {
	logger        *mclog.Logger
	category      mclog.Category
	defaultLevel  mclog.Severity
	levelDetector func(string) mclog.Severity // Detects severity from message text
}

// NewFastHTTPAdapter creates a fasthttp-compatible adapter logging under the http category
func NewFastHTTPAdapter(logger *mclog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		category:      mclog.CategoryHTTP,
		defaultLevel:  mclog.SeverityInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the severity used when detection finds nothing
func WithDefaultLevel(level mclog.Severity) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect severity from message content.
// Returning mclog.SeverityAny selects the default level.
func WithLevelDetector(detector func(string) mclog.Severity) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// WithHTTPCategory logs under a different category
func WithHTTPCategory(category mclog.Category) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.category = category
	}
}

// Printf implements fasthttp.Logger
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != mclog.SeverityAny {
			level = detected
		}
	}

	if a.logger.IsLoggable(a.category, level) {
		a.logger.Output(2, a.category, level, msg)
	}
}

// DetectLogLevel guesses a severity from message content. Messages without
// a recognizable keyword return mclog.SeverityAny.
func DetectLogLevel(msg string) mclog.Severity {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return mclog.SeverityErr
	}

	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return mclog.SeverityWarning
	}

	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return mclog.SeverityDebug
	}

	return mclog.SeverityAny
}
