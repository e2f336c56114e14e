// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package config loads runtime settings from a YAML file and command-line
// flags.
package config

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/burge/burge/internal/geom"
)

// Config holds everything the CLI needs to load and drive scenes.
type Config struct {
	// Scenes are scene document files, loaded in order.
	Scenes []string `koanf:"scenes"`
	// Scene names the scene to start in. Empty means the first file's.
	Scene           string        `koanf:"scene"`
	Step            time.Duration `koanf:"step"`
	Frames          int           `koanf:"frames"`
	LogFormat       string        `koanf:"log-format"`
	LogLevel        string        `koanf:"log-level"`
	MetricsAddr     string        `koanf:"metrics-addr"`
	TracingEndpoint string        `koanf:"tracing-endpoint"`
	Viewport        geom.Viewport `koanf:"viewport"`
	Snapshot        string        `koanf:"snapshot"`
}

// Default values.
const (
	DefaultStep      = 16 * time.Millisecond
	DefaultLogFormat = "json"
	DefaultLogLevel  = "info"
	DefaultWidth     = 800
	DefaultHeight    = 450
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Step:      DefaultStep,
		LogFormat: DefaultLogFormat,
		LogLevel:  DefaultLogLevel,
		Viewport:  geom.Viewport{Width: DefaultWidth, Height: DefaultHeight},
	}
}

// RegisterFlags adds the config flags to fs with their default values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringSlice("scenes", nil, "scene document files")
	fs.String("scene", "", "scene to start in (default: the first file's scene)")
	fs.Duration("step", d.Step, "simulation step")
	fs.Int("frames", d.Frames, "frames to run (0 = until interrupted)")
	fs.String("log-format", d.LogFormat, "log format (json or text)")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.String("metrics-addr", d.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("tracing-endpoint", d.TracingEndpoint, "OTLP/HTTP endpoint for frame traces (empty = disabled)")
	fs.Uint32("viewport-width", d.Viewport.Width, "presentation width in pixels")
	fs.Uint32("viewport-height", d.Viewport.Height, "presentation height in pixels")
	fs.String("snapshot", d.Snapshot, "PNG snapshot path")
}

var keys = []string{
	"scenes", "scene", "step", "frames", "log-format", "log-level",
	"metrics-addr", "tracing-endpoint", "viewport.width", "viewport.height",
	"snapshot",
}

// Load layers the file at path, when it is non-empty, and then the flags
// set on fs over the defaults. A missing file is an error unless optional
// is set.
func Load(path string, optional bool, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		_, statErr := os.Stat(path)
		if statErr == nil || !optional {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "read config file")
			}
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key := strings.Replace(f.Name, "viewport-", "viewport.", 1)
			if !slices.Contains(keys, key) {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "read flags")
		}
	}

	cfg := Default()
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			TagName:          "koanf",
			Result:           &cfg,
		},
	})
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "decode config")
	}
	return &cfg, nil
}

// Validate checks that the configuration can drive a scene.
func (c *Config) Validate() error {
	switch {
	case len(c.Scenes) == 0:
		return invalid("scenes", c.Scenes, "at least one scene file is required")
	case c.Step <= 0:
		return invalid("step", c.Step, "step must be positive")
	case c.Frames < 0:
		return invalid("frames", c.Frames, "frames must not be negative")
	case c.LogFormat != "json" && c.LogFormat != "text":
		return invalid("log-format", c.LogFormat, "log format must be 'json' or 'text'")
	case !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)):
		return invalid("log-level", c.LogLevel, "unknown log level")
	case c.Viewport.Width == 0 || c.Viewport.Height == 0:
		return invalid("viewport", c.Viewport, "viewport must have a non-zero size")
	}
	return nil
}

func invalid(key string, value any, msg string) error {
	return oops.Code("CONFIG_INVALID").With(key, value).Errorf("%s", msg)
}
