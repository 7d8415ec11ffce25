package zaplog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
)

// Config selects the zap encoder and level.
type Config struct {
	Level       string
	Format      string
	AddSource   bool
	Development bool
}

// Provider adapts a zap logger to interfaces.LoggerProvider.
type Provider struct {
	root *zap.SugaredLogger
}

// NewProvider builds a zap logger from cfg. Format "console" switches the
// encoder, anything else uses JSON.
func NewProvider(cfg Config) (*Provider, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	if level := strings.TrimSpace(cfg.Level); level != "" {
		if strings.EqualFold(level, "trace") {
			level = "debug"
		}
		parsed, err := zapcore.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("logging: invalid zap level %q: %w", cfg.Level, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		zcfg.Encoding = "json"
	case "console", "pretty":
		zcfg.Encoding = "console"
	default:
		return nil, fmt.Errorf("logging: unsupported zap format %q", cfg.Format)
	}
	zcfg.DisableCaller = !cfg.AddSource

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return FromLogger(logger), nil
}

// FromLogger wraps an existing zap logger.
func FromLogger(logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{root: logger.Sugar()}
}

// GetLogger returns a child logger named after the module.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return &adapter{inner: p.root}
	}
	return &adapter{inner: p.root.Named(name)}
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	if p == nil || p.root == nil {
		return nil
	}
	return p.root.Sync()
}

type adapter struct {
	inner *zap.SugaredLogger
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Debugw(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debugw(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Infow(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warnw(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Errorw(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatalw(msg, args...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return &adapter{inner: l.inner.With(args...)}
}

// WithContext returns l; zap has no context-aware entry point.
func (l *adapter) WithContext(context.Context) interfaces.Logger {
	return l
}
