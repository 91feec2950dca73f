// Package config loads the YAML configuration shared by the rts command
// and embedders of the host module.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/cPlayIt/motoko/closure"
	"github.com/cPlayIt/motoko/errors"
)

// DefaultModuleName is the import module name guests use for the runtime.
const DefaultModuleName = "motoko_rts"

// Config is the top-level configuration document.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Closure ClosureConfig `yaml:"closure"`
	Host    HostConfig    `yaml:"host"`
}

// LogConfig selects the zap logger built by NewLogger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ClosureConfig sizes closure tables.
type ClosureConfig struct {
	InitialCapacity int `yaml:"initial_capacity"`
}

// HostConfig configures the wazero host module.
type HostConfig struct {
	ModuleName string `yaml:"module_name"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Closure: ClosureConfig{
			InitialCapacity: closure.DefaultCapacity,
		},
		Host: HostConfig{
			ModuleName: DefaultModuleName,
		},
	}
}

// Load reads path and overlays it on Default. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, "empty config path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "open "+path)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document from r and validates it. An empty document
// yields the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration in one error.
func (c *Config) Validate() error {
	var issues []string

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		issues = append(issues, fmt.Sprintf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Closure.InitialCapacity < 1 {
		issues = append(issues, fmt.Sprintf("closure.initial_capacity: must be at least 1, got %d", c.Closure.InitialCapacity))
	}
	if c.Host.ModuleName == "" {
		issues = append(issues, "host.module_name: must not be empty")
	}

	if len(issues) == 0 {
		return nil
	}
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(issues).
		Detail("%s", strings.Join(issues, "; ")).
		Build()
}

// ClosureOptions returns the table options implied by the configuration.
func (c *Config) ClosureOptions() []closure.Option {
	return []closure.Option{closure.WithInitialCapacity(c.Closure.InitialCapacity)}
}

// NewLogger builds the zap logger described by the log section.
func (l LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}

	var zc zap.Config
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
