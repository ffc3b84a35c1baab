package helpers

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/techcollege/portal/cli/tui/models"
	"github.com/techcollege/portal/pkg/config"
	"golang.org/x/term"
)

// ciMarkers are environment variables set by common CI runners.
var ciMarkers = []string{
	"CI", "CONTINUOUS_INTEGRATION", "BUILD_NUMBER",
	"GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TEAMCITY_VERSION",
	"CIRCLECI", "TRAVIS", "BUILDKITE", "DRONE", "TF_BUILD",
}

func inCI() bool {
	for _, name := range ciMarkers {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// DetectMode picks the presentation for cmd. An explicit --format wins;
// "auto" means the TUI on an interactive terminal and JSON everywhere else.
func DetectMode(cmd *cobra.Command) models.Mode {
	cfg := config.FromContext(cmd.Context())
	switch OutputFormat(cfg.CLI.DefaultFormat) {
	case OutputFormatJSON:
		return models.ModeJSON
	case OutputFormatTUI:
		return models.ModeTUI
	}
	if cfg.CLI.Interactive {
		return models.ModeTUI
	}
	if inCI() || !term.IsTerminal(int(os.Stdin.Fd())) || !isTerminal(os.Stdout) {
		return models.ModeJSON
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return models.ModeJSON
	}
	return models.ModeTUI
}

// ColorDisabled reports whether styled output must be plain text.
func ColorDisabled(cfg *config.Config) bool {
	return (cfg != nil && cfg.CLI.NoColor) || os.Getenv("NO_COLOR") != ""
}

// ApplyColorProfile strips colors from every lipgloss style when cfg or the
// environment asks for it.
func ApplyColorProfile(cfg *config.Config) {
	if ColorDisabled(cfg) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
