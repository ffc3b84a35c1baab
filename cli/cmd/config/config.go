package config

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/techcollege/portal/cli/cmd"
	"github.com/techcollege/portal/cli/helpers"
	"github.com/techcollege/portal/cli/tui/styles"
	"github.com/techcollege/portal/pkg/config"
	"github.com/techcollege/portal/pkg/logger"
)

// Cmd returns the config command group.
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate the effective configuration",
		Long: `Show the configuration portalctl would use (defaults, environment, YAML file
and flags merged in that order) and check it for errors.`,
	}
	c.AddCommand(showCmd(), validateCmd())
	return c
}

func showCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values",
		Long: `Display the effective configuration with secrets redacted. In a terminal the
values are printed as a table or YAML; otherwise as a JSON envelope.`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleShowJSON,
				TUI:  handleShowTUI,
			}, args)
		},
	}
	c.Flags().StringP("output", "o", "table", "Terminal output layout (table, yaml)")
	c.Flags().Bool("sources", false, "Show where each value came from")
	return c
}

func handleShowJSON(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	logger.FromContext(ctx).Debug("executing config show command in JSON mode")
	cfg := config.FromContext(ctx)
	result := map[string]any{
		"config":  flattenConfig(cfg),
		"sources": describeSources(config.ServiceFromContext(ctx), flattenConfig(cfg)),
	}
	return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(result, "")
}

func handleShowTUI(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
	logger.FromContext(ctx).Debug("executing config show command in TUI mode")
	output, err := cobraCmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	showSources, err := cobraCmd.Flags().GetBool("sources")
	if err != nil {
		return fmt.Errorf("failed to get sources flag: %w", err)
	}
	cfg := config.FromContext(ctx)
	var sources map[string]string
	if showSources {
		sources = describeSources(config.ServiceFromContext(ctx), flattenConfig(cfg))
	}
	return formatConfigOutput(cobraCmd.OutOrStdout(), cfg, sources, output)
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: func(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
					if err := validate(ctx); err != nil {
						return err
					}
					result := map[string]any{"valid": true}
					return helpers.NewOutputWriter(cobraCmd.OutOrStdout()).WriteData(result, "Configuration is valid")
				},
				TUI: func(ctx context.Context, cobraCmd *cobra.Command, _ *cmd.CommandExecutor, _ []string) error {
					if err := validate(ctx); err != nil {
						return err
					}
					fmt.Fprintln(cobraCmd.OutOrStdout(), styles.SuccessStyle.Render("✓ Configuration is valid"))
					return nil
				},
			}, args)
		},
	}
}

func validate(ctx context.Context) error {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return helpers.NewCliError(helpers.CodeValidation, "Configuration was not loaded")
	}
	if err := config.ServiceFromContext(ctx).Validate(cfg); err != nil {
		return helpers.NewCliError(helpers.CodeValidation, "Configuration is invalid", err.Error()).WithCause(err)
	}
	return nil
}

func formatConfigOutput(w io.Writer, cfg *config.Config, sources map[string]string, output string) error {
	switch output {
	case "yaml":
		out := map[string]any{"config": flattenConfig(cfg)}
		if len(sources) > 0 {
			out["sources"] = sources
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return encoder.Close()
	case "table", "":
		return outputTable(w, cfg, sources)
	default:
		return helpers.NewCliError(helpers.CodeValidation, fmt.Sprintf("unsupported output %q", output), "use table or yaml")
	}
}

func outputTable(w io.Writer, cfg *config.Config, sources map[string]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	flat := flattenConfig(cfg)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if sources != nil {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
		fmt.Fprintln(tw, "---\t-----\t------")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
		fmt.Fprintln(tw, "---\t-----")
	}
	for _, key := range keys {
		if sources != nil {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", key, flat[key], sources[key])
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, flat[key])
	}
	return tw.Flush()
}

// flattenConfig renders every setting as text keyed by its dotted path.
// Secrets are redacted.
func flattenConfig(cfg *config.Config) map[string]string {
	result := make(map[string]string)
	result["api.base_url"] = redactURL(cfg.API.BaseURL)
	result["api.timeout"] = cfg.API.Timeout.String()
	result["api.token"] = cfg.API.Token.String()
	result["api.user_agent"] = cfg.API.UserAgent

	result["cli.default_format"] = cfg.CLI.DefaultFormat
	result["cli.interactive"] = strconv.FormatBool(cfg.CLI.Interactive)
	result["cli.no_color"] = strconv.FormatBool(cfg.CLI.NoColor)

	result["runtime.log_level"] = cfg.Runtime.LogLevel
	result["runtime.log_json"] = strconv.FormatBool(cfg.Runtime.LogJSON)
	result["runtime.log_source"] = strconv.FormatBool(cfg.Runtime.LogSource)

	result["schedule.groups"] = strings.Join(cfg.Schedule.Groups, ",")
	result["schedule.timezone"] = cfg.Schedule.Timezone
	result["schedule.term_start"] = cfg.Schedule.TermStart
	result["schedule.term_weeks"] = strconv.Itoa(cfg.Schedule.TermWeeks)
	for key, value := range result {
		if value != "" && config.IsSensitiveConfigPath(key) {
			result[key] = "[REDACTED]"
		}
	}
	return result
}

// describeSources names the source of every key; environment values also
// name their variable.
func describeSources(service config.Service, flat map[string]string) map[string]string {
	sources := make(map[string]string, len(flat))
	for key := range flat {
		source := service.GetSource(key)
		switch source {
		case "":
			sources[key] = string(config.SourceDefault)
		case config.SourceEnv:
			sources[key] = fmt.Sprintf("%s (%s)", source, config.GetEnvVarForConfigPath(key))
		default:
			sources[key] = string(source)
		}
	}
	return sources
}

// redactURL drops credentials and token query values from u.
func redactURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return u
	}
	if parsed.User != nil {
		parsed.User = url.User("[REDACTED]")
	}
	query := parsed.Query()
	if query.Has("token") {
		query.Set("token", "[REDACTED]")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}
