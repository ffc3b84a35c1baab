package config

import (
	"reflect"
	"sync"
)

// Setting describes one leaf of Config as seen by the loaders.
type Setting struct {
	Path      string // dotted koanf path, e.g. "api.base_url"
	EnvVar    string // empty when the setting cannot be set from the environment
	Sensitive bool
}

var settings = sync.OnceValue(func() []Setting {
	return walkSettings(reflect.TypeFor[Config](), "")
})

// Settings lists every configuration leaf in declaration order.
func Settings() []Setting {
	return settings()
}

func walkSettings(t reflect.Type, prefix string) []Setting {
	var out []Setting
	for field := range fieldsOf(t) {
		name := field.Tag.Get("koanf")
		if name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "time" {
			out = append(out, walkSettings(field.Type, path)...)
			continue
		}
		env := field.Tag.Get("env")
		if env == "-" {
			env = ""
		}
		out = append(out, Setting{
			Path:      path,
			EnvVar:    env,
			Sensitive: field.Type == reflect.TypeFor[SensitiveString]() || field.Tag.Get("sensitive") == "true",
		})
	}
	return out
}

func fieldsOf(t reflect.Type) func(yield func(reflect.StructField) bool) {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() && !yield(f) {
				return
			}
		}
	}
}

// GenerateEnvToConfigMap maps environment variable names to config paths.
func GenerateEnvToConfigMap() map[string]string {
	result := make(map[string]string)
	for _, s := range Settings() {
		if s.EnvVar != "" {
			result[s.EnvVar] = s.Path
		}
	}
	return result
}

// GetEnvVarForConfigPath returns the variable that sets path, or "".
func GetEnvVarForConfigPath(path string) string {
	for _, s := range Settings() {
		if s.Path == path {
			return s.EnvVar
		}
	}
	return ""
}

// IsSensitiveConfigPath reports whether path holds a secret.
func IsSensitiveConfigPath(path string) bool {
	for _, s := range Settings() {
		if s.Path == path {
			return s.Sensitive
		}
	}
	return false
}
