package config

import (
	"context"

	"github.com/techcollege/portal/pkg/logger"
)

// ContextKey is the type used for storing values in context
type ContextKey string

const ConfigCtxKey ContextKey = "config"

// ContextWithConfig stores the loaded configuration in the context.
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ConfigCtxKey, cfg)
}

// FromContext returns the configuration attached to ctx. When none is present it
// loads defaults and environment values, falling back to Default on failure.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(ConfigCtxKey).(*Config); ok && cfg != nil {
			return cfg
		}
	} else {
		ctx = context.Background()
	}
	cfg, err := Load(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load default configuration, using fallback defaults", "error", err)
		return Default()
	}
	return cfg
}

const ServiceCtxKey ContextKey = "config_service"

// ContextWithService stores the service that produced the configuration, so
// commands can report where each value came from.
func ContextWithService(ctx context.Context, svc Service) context.Context {
	return context.WithValue(ctx, ServiceCtxKey, svc)
}

// ServiceFromContext returns the stored service or a fresh one.
func ServiceFromContext(ctx context.Context) Service {
	if ctx != nil {
		if svc, ok := ctx.Value(ServiceCtxKey).(Service); ok && svc != nil {
			return svc
		}
	}
	return NewService()
}
