package config

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/techcollege/portal/cli/helpers"
	pkgconfig "github.com/techcollege/portal/pkg/config"
	testhelpers "github.com/techcollege/portal/test/helpers"
)

// loadContext loads defaults plus flags through a real service, the way the
// root command does.
func loadContext(t *testing.T, flags map[string]any) context.Context {
	t.Helper()
	ctx := testhelpers.TestContext(t, nil)
	service := pkgconfig.NewService()
	cfg, err := service.Load(ctx, pkgconfig.NewCLIProvider(flags))
	require.NoError(t, err)
	cfg.CLI.DefaultFormat = string(helpers.OutputFormatJSON)
	ctx = pkgconfig.ContextWithConfig(ctx, cfg)
	return pkgconfig.ContextWithService(ctx, service)
}

func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmdObj := Cmd()
	cmdObj.SetContext(ctx)
	cmdObj.SetOut(out)
	cmdObj.SetErr(&bytes.Buffer{})
	cmdObj.SilenceErrors = true
	cmdObj.SilenceUsage = true
	cmdObj.SetArgs(args)
	err := cmdObj.Execute()
	return out.String(), err
}

func TestConfigShow(t *testing.T) {
	t.Run("Should print flattened values with secrets redacted", func(t *testing.T) {
		ctx := loadContext(t, map[string]any{
			"base-url": "https://portal.example.edu/api",
			"token":    "s3cret",
		})

		out, err := run(t, ctx, "show")

		require.NoError(t, err)
		assert.Equal(t, "https://portal.example.edu/api", gjson.Get(out, `data.config.api\.base_url`).String())
		assert.Equal(t, "[REDACTED]", gjson.Get(out, `data.config.api\.token`).String())
		assert.NotContains(t, out, "s3cret")
		assert.Equal(t, "Europe/Moscow", gjson.Get(out, `data.config.schedule\.timezone`).String())
	})

	t.Run("Should report where each value came from", func(t *testing.T) {
		ctx := loadContext(t, map[string]any{"base-url": "https://portal.example.edu/api"})

		out, err := run(t, ctx, "show")

		require.NoError(t, err)
		assert.Equal(t, "cli", gjson.Get(out, `data.sources.api\.base_url`).String())
		assert.Equal(t, "default", gjson.Get(out, `data.sources.schedule\.term_weeks`).String())
	})
}

func TestFormatConfigOutput(t *testing.T) {
	t.Run("Should print a sorted table with sources", func(t *testing.T) {
		cfg := pkgconfig.Default()
		out := &bytes.Buffer{}

		err := formatConfigOutput(out, cfg, map[string]string{"api.base_url": "yaml"}, "table")

		require.NoError(t, err)
		text := out.String()
		assert.Contains(t, text, "KEY")
		assert.Contains(t, text, "SOURCE")
		assert.Less(t, bytes.Index(out.Bytes(), []byte("api.base_url")), bytes.Index(out.Bytes(), []byte("schedule.timezone")))
	})

	t.Run("Should print YAML", func(t *testing.T) {
		out := &bytes.Buffer{}

		require.NoError(t, formatConfigOutput(out, pkgconfig.Default(), nil, "yaml"))

		assert.Contains(t, out.String(), "api.timeout: 15s")
	})

	t.Run("Should reject an unknown layout", func(t *testing.T) {
		assert.Error(t, formatConfigOutput(&bytes.Buffer{}, pkgconfig.Default(), nil, "xml"))
	})
}

func TestRedactURL(t *testing.T) {
	t.Run("Should hide credentials and tokens", func(t *testing.T) {
		redacted := redactURL("https://admin:pw@portal.example.edu/api?token=abc")
		assert.NotContains(t, redacted, "pw")
		assert.NotContains(t, redacted, "abc")
		assert.Contains(t, redacted, "portal.example.edu/api")
	})

	t.Run("Should keep plain URLs", func(t *testing.T) {
		assert.Equal(t, "http://localhost:8080/api", redactURL("http://localhost:8080/api"))
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("Should accept the defaults", func(t *testing.T) {
		ctx := loadContext(t, nil)

		out, err := run(t, ctx, "validate")

		require.NoError(t, err)
		assert.True(t, gjson.Get(out, "data.valid").Bool())
	})

	t.Run("Should report an invalid configuration", func(t *testing.T) {
		ctx := loadContext(t, nil)
		pkgconfig.FromContext(ctx).API.Timeout = -time.Second

		out, err := run(t, ctx, "validate")

		require.Error(t, err)
		assert.Equal(t, helpers.CodeValidation, gjson.Get(out, "code").String())
	})
}
