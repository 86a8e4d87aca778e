package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/mclog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet's engine logging into an mclog.Logger
type GnetAdapter struct {
	logger       *mclog.Logger
	category     mclog.Category
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a gnet-compatible adapter logging under the network category
func NewGnetAdapter(logger *mclog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger:   logger,
		category: mclog.CategoryNetwork,
		fatalHandler: func(msg string) {
			os.Exit(1) // gnet expects Fatalf not to return
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetCategory logs under a different category
func WithGnetCategory(category mclog.Category) GnetOption {
	return func(a *GnetAdapter) {
		a.category = category
	}
}

func (a *GnetAdapter) output(level mclog.Severity, format string, args []any) {
	if !a.logger.IsLoggable(a.category, level) {
		return
	}
	// Skip output and the exported method so the location is gnet's
	a.logger.Output(3, a.category, level, fmt.Sprintf(format, args...))
}

// Debugf logs at debug severity
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.output(mclog.SeverityDebug, format, args)
}

// Infof logs at info severity
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.output(mclog.SeverityInfo, format, args)
}

// Warnf logs at warning severity
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.output(mclog.SeverityWarning, format, args)
}

// Errorf logs at error severity
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.output(mclog.SeverityErr, format, args)
}

// Fatalf logs at critical severity, shuts the logger down so queued records
// reach their sinks, then calls the fatal handler.
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.output(mclog.SeverityCrit, "%s", []any{msg})

	_ = a.logger.Shutdown(100 * time.Millisecond)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
