// Package config loads settings for the exevalator command.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileName is the config file used when none is given explicitly, if it
// exists in the working directory.
const FileName = "exevalator.yaml"

// EnvPrefix is the prefix of environment variables which override settings.
// A double underscore separates nested keys, e.g. EXEVALATOR_BENCH__LOOPS.
const EnvPrefix = "EXEVALATOR_"

// Config holds all settings.
type Config struct {
	// Language selects the error message table, as a BCP 47 tag.
	Language string `koanf:"language"`
	// Preset names the function set connected to engines: none, math, or
	// precise.
	Preset string `koanf:"preset"`
	// Precision is the number of bits used by the precise preset.
	Precision uint       `koanf:"precision"`
	LogLevel  slog.Level `koanf:"log_level"`
	// Variables are declared and assigned in every engine before evaluating.
	Variables map[string]float64 `koanf:"variables"`

	Bench     BenchConfig     `koanf:"bench"`
	Integrate IntegrateConfig `koanf:"integrate"`
	Serve     ServeConfig     `koanf:"serve"`
}

// BenchConfig holds settings for the bench command.
type BenchConfig struct {
	Loops      int    `koanf:"loops"`
	Workers    int    `koanf:"workers"`
	Expression string `koanf:"expression"`
}

// IntegrateConfig holds settings for the integrate command.
type IntegrateConfig struct {
	Steps int `koanf:"steps"`
}

// ServeConfig holds settings for the serve command.
type ServeConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Watch reloads the config file when it changes.
	Watch bool `koanf:"watch"`
}

// Defaults are the settings before any file, environment, or flags.
var Defaults = map[string]any{
	"language":               "en",
	"preset":                 "math",
	"precision":              128,
	"log_level":              "warn",
	"bench.loops":            1000000,
	"bench.workers":          1,
	"bench.expression":       "x + 1 - 1 + 1 - 1 + 1 - 1 + 1 - 1 + 1 - 1",
	"integrate.steps":        65536,
	"serve.addr":             "127.0.0.1:8080",
	"serve.shutdown_timeout": "5s",
	"serve.watch":            false,
}

// flagKeys maps command-line flag names to config keys. Flags not listed are
// command options rather than settings.
var flagKeys = map[string]string{
	"lang":      "language",
	"preset":    "preset",
	"precision": "precision",
	"log-level": "log_level",
	"var":       "variables",
	"loops":     "bench.loops",
	"workers":   "bench.workers",
	"steps":     "integrate.steps",
	"addr":      "serve.addr",
	"watch":     "serve.watch",
}

// FindFile returns explicit if it is non-empty, or FileName if it exists, or
// the empty string.
func FindFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	return ""
}

// Load loads configuration from defaults, the file at path, environment
// variables, and flags, in increasing order of precedence. An empty path
// skips the file. Only flags which were set explicitly are used.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment: EXEVALATOR_SERVE__ADDR -> serve.addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			if f.Value.Type() == "stringToString" {
				// Give nested maps the same shape as other providers so
				// that they merge rather than replace.
				vals, _ := flags.GetStringToString(f.Name)
				m := make(map[string]any, len(vals))
				for name, v := range vals {
					m[name] = v
				}
				return key, m
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that settings are usable.
func (c *Config) Validate() error {
	switch c.Preset {
	case "none", "math", "precise":
	default:
		return fmt.Errorf("preset must be none, math, or precise, not %q", c.Preset)
	}
	if c.Precision == 0 {
		return fmt.Errorf("precision must be positive")
	}
	if c.Bench.Loops <= 0 {
		return fmt.Errorf("bench.loops must be positive, not %d", c.Bench.Loops)
	}
	if c.Bench.Workers <= 0 {
		return fmt.Errorf("bench.workers must be positive, not %d", c.Bench.Workers)
	}
	if c.Integrate.Steps <= 0 {
		return fmt.Errorf("integrate.steps must be positive, not %d", c.Integrate.Steps)
	}
	return nil
}
