package compat

import (
	"fmt"

	"github.com/lixenwraith/mclog"
)

// Builder creates gnet and fasthttp adapters sharing one logger. It uses an
// existing *mclog.Logger or creates one from a *mclog.Config.
type Builder struct {
	logger *mclog.Logger
	logCfg *mclog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l *mclog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("mclog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance.
// Without either option a default logger is created.
func (b *Builder) WithConfig(cfg *mclog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*mclog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = mclog.DefaultConfig()
	}

	l := mclog.NewLogger()
	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}

	// Later builds share the created logger
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, creating it if needed
func (b *Builder) GetLogger() (*mclog.Logger, error) {
	return b.getLogger()
}

// Example usage:
//
//	appLogger, err := mclog.NewBuilder().
//		Categories("general,network,http").
//		Severity("debug").
//		Build()
//	if err != nil { /* handle error */ }
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:6543", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":6544")
