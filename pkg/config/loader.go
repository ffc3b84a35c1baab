package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// layer is one koanf provider together with the source it is reported as.
type layer struct {
	provider koanf.Provider
	source   SourceType
}

// loader implements Service on top of koanf. Each Load starts from scratch
// and applies, lowest first: defaults, environment, then the given sources.
type loader struct {
	validate *validator.Validate

	mu      sync.RWMutex
	origins map[string]SourceType
}

// NewService creates a configuration service with validation support.
func NewService() Service {
	v := validator.New()
	if err := RegisterCustomValidators(v); err != nil {
		panic(fmt.Sprintf("config: register validators: %v", err))
	}
	return &loader{validate: v, origins: map[string]SourceType{}}
}

func (l *loader) Load(_ context.Context, sources ...Source) (*Config, error) {
	layers := []layer{
		{structs.Provider(Default(), "koanf"), SourceDefault},
		{envProvider(), SourceEnv},
	}
	for _, src := range sources {
		// the environment layer is always applied above
		if src != nil && src.Type() != SourceEnv {
			layers = append(layers, layer{src, src.Type()})
		}
	}

	k := koanf.New(".")
	origins := map[string]SourceType{}
	for _, ly := range layers {
		before := k.All()
		if err := k.Load(ly.provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load from source %s: %w", ly.source, err)
		}
		for key, value := range k.All() {
			if prev, ok := before[key]; !ok || !reflect.DeepEqual(prev, value) {
				origins[key] = ly.source
			}
		}
	}

	l.mu.Lock()
	l.origins = origins
	l.mu.Unlock()

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envProvider reads only the variables declared through env struct tags.
func envProvider() koanf.Provider {
	paths := GenerateEnvToConfigMap()
	return env.Provider(".", env.Opt{
		TransformFunc: func(name, value string) (string, any) {
			path, ok := paths[name]
			if !ok {
				return "", nil
			}
			return path, value
		},
	})
}

var sensitiveType = reflect.TypeFor[SensitiveString]()

// toSensitive lets plain strings decode into SensitiveString fields.
func toSensitive(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if s, ok := data.(string); ok && to == sensitiveType {
		return SensitiveString(s), nil
	}
	return data, nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	cfg := new(Config)
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				toSensitive,
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// Validate applies the struct tags, including group_code and monday.
func (l *loader) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration cannot be nil")
	}
	if err := l.validate.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// GetSource reports which layer last changed key during the latest Load.
func (l *loader) GetSource(key string) SourceType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if source, ok := l.origins[key]; ok {
		return source
	}
	return SourceDefault
}
