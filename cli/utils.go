package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/techcollege/portal/pkg/config"
)

// extractCLIFlags returns the configuration flags the user changed, keyed by
// flag name. Values stay in their textual form; the loader decodes them.
func extractCLIFlags(cmd *cobra.Command) map[string]any {
	changed := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if _, ok := config.CLIFlagPath(f.Name); ok {
			changed[f.Name] = f.Value.String()
		}
	})
	return changed
}

// loadEnvFile loads the --env-file into the process environment. The file must
// live under the working directory; a missing file is not an error.
func loadEnvFile(cmd *cobra.Command) (string, error) {
	name, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if name == "" {
		return "", nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(wd, path)
	}
	path = filepath.Clean(path)
	if !withinDir(path, wd) {
		return "", fmt.Errorf("env file path '%s' is outside the project directory", name)
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return path, nil
	case err != nil:
		return "", fmt.Errorf("failed to stat env file: %w", err)
	case !info.Mode().IsRegular():
		return "", fmt.Errorf("env file path '%s' is not a regular file", name)
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return path, nil
}

// withinDir reports whether path is dir itself or below it.
func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
