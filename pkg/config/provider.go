package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	kmaps "github.com/knadh/koanf/maps"
	"gopkg.in/yaml.v3"
)

var errNoBytes = errors.New("config: source provides maps only")

// cliFlagPaths maps persistent flag names onto configuration paths.
var cliFlagPaths = map[string]string{
	"base-url":   "api.base_url",
	"timeout":    "api.timeout",
	"token":      "api.token",
	"format":     "cli.default_format",
	"no-color":   "cli.no_color",
	"log-level":  "runtime.log_level",
	"log-json":   "runtime.log_json",
	"log-source": "runtime.log_source",
	"timezone":   "schedule.timezone",
	"term-start": "schedule.term_start",
	"term-weeks": "schedule.term_weeks",
}

// CLIFlagPath returns the configuration path a flag overrides, if any.
func CLIFlagPath(flag string) (string, bool) {
	path, ok := cliFlagPaths[flag]
	return path, ok
}

type cliProvider struct {
	flags map[string]any
}

// NewCLIProvider turns changed flag values, keyed by flag name, into a
// configuration layer. Unknown flags are ignored.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{flags: flags}
}

func (c *cliProvider) Read() (map[string]any, error) {
	flat := make(map[string]any, len(c.flags))
	for name, value := range c.flags {
		if path, ok := cliFlagPaths[name]; ok {
			flat[path] = value
		}
	}
	return kmaps.Unflatten(flat, "."), nil
}

func (c *cliProvider) ReadBytes() ([]byte, error) { return nil, errNoBytes }

func (c *cliProvider) Type() SourceType { return SourceCLI }

type yamlProvider struct {
	path string
}

// NewYAMLProvider reads a YAML file. A missing file is an empty layer and
// keys left blank in the file do not clear lower layers.
func NewYAMLProvider(path string) Source {
	return &yamlProvider{path: path}
}

func (y *yamlProvider) ReadBytes() ([]byte, error) {
	data, err := os.ReadFile(y.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	return data, nil
}

func (y *yamlProvider) Read() (map[string]any, error) {
	data, err := y.ReadBytes()
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	flat, _ := kmaps.Flatten(doc, nil, ".")
	maps.DeleteFunc(flat, func(_ string, v any) bool { return v == nil })
	return kmaps.Unflatten(flat, "."), nil
}

func (y *yamlProvider) Type() SourceType { return SourceYAML }
