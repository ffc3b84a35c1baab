package helpers

import (
	"context"
	"testing"

	"github.com/techcollege/portal/pkg/config"
	"github.com/techcollege/portal/pkg/logger"
)

// TestContext returns the test's context carrying a silent logger and cfg
// (the built-in defaults when cfg is nil).
func TestContext(t *testing.T, cfg *config.Config) context.Context {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := logger.ContextWithLogger(t.Context(), logger.Discard())
	return config.ContextWithConfig(ctx, cfg)
}
