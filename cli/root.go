package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/techcollege/portal/cli/cmd/announcements"
	configcmd "github.com/techcollege/portal/cli/cmd/config"
	"github.com/techcollege/portal/cli/cmd/cooperation"
	"github.com/techcollege/portal/cli/cmd/schedule"
	"github.com/techcollege/portal/cli/helpers"
	"github.com/techcollege/portal/cli/tui/models"
	"github.com/techcollege/portal/pkg/config"
	"github.com/techcollege/portal/pkg/logger"
	"github.com/techcollege/portal/pkg/version"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portalctl",
		Short: "College portal client",
		Long: `portalctl reads the public sections of the college portal (announcements,
group schedules, international cooperation) and administers the editable ones.
Output is an interactive terminal UI on a terminal and JSON otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}

	addGlobalFlags(root)

	root.AddCommand(
		announcements.Cmd(),
		cooperation.Cmd(),
		schedule.Cmd(),
		configcmd.Cmd(),
		versionCmd(),
	)

	return root
}

func addGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("env-file", ".env", "Path to an environment file")

	flags.String("base-url", "", "Portal API base URL")
	flags.Duration("timeout", 15*time.Second, "Per-request timeout")
	flags.String("token", "", "Bearer token for the portal API")

	flags.String("format", string(helpers.OutputFormatAuto), "Output format (auto, json, tui)")
	flags.Bool("no-color", false, "Disable colored output")

	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")

	flags.String("timezone", "", "Timezone of the timetable")
	flags.String("term-start", "", "First Monday of the term (YYYY-MM-DD)")
	flags.Int("term-weeks", 0, "Number of weeks in the term")
}

// SetupGlobalConfig loads the environment file and the configuration
// (defaults, environment, YAML file, changed flags), configures logging, and
// stores the results in the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	envFile, err := loadEnvFile(cmd)
	if err != nil {
		return fmt.Errorf("failed to load environment file: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var sources []config.Source
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config file: %w", err)
	}
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	if cliFlags := extractCLIFlags(cmd); len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}

	service := config.NewService()
	cfg, err := service.Load(ctx, sources...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Setup(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, cfg.Runtime.LogSource)
	helpers.ApplyColorProfile(cfg)
	log := logger.GetDefault()
	log.Debug("configuration loaded", "env_file", envFile, "config_file", configFile, "base_url", cfg.API.BaseURL)

	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	ctx = config.ContextWithService(ctx, service)
	cmd.SetContext(ctx)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if helpers.DetectMode(cmd) == models.ModeJSON {
				return helpers.NewOutputWriter(cmd.OutOrStdout()).WriteData(info, "")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "portalctl %s\ncommit: %s\nbuilt: %s\n",
				info.Version, info.CommitHash, info.BuildDate)
			return nil
		},
	}
}
