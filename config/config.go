// Package config provides the run configuration of a tape machine.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/tapevm/core"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the user-facing configuration. It is filled from defaults, then
// from an optional YAML file, then from command line flags.
type Config struct {
	TapeSize int `yaml:"tape_size"`
	Origin   int `yaml:"origin"`

	// EOFValue is stored into the cell when input runs out. A nil value
	// leaves the cell unchanged.
	EOFValue *int `yaml:"eof_value"`

	BoundsCheck  bool   `yaml:"bounds_check"`
	PrintOnly    bool   `yaml:"print_only"`
	Debug        bool   `yaml:"debug"`
	InstsPerTick int    `yaml:"insts_per_tick"`
	LogLevel     string `yaml:"log_level"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		TapeSize:     core.DefaultTapeSize,
		BoundsCheck:  true,
		InstsPerTick: 1,
		LogLevel:     "warn",
	}
}

// LoadFile reads a YAML file over the defaults and validates the result.
// Keys missing from the file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("unable to open config '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the ranges of all fields.
func (c Config) Validate() error {
	if c.TapeSize <= 0 {
		return fmt.Errorf("%w: tape size must be positive, got %d",
			ErrInvalidConfig, c.TapeSize)
	}

	if c.Origin < 0 || c.Origin >= c.TapeSize {
		return fmt.Errorf("%w: origin %d outside [0, %d)",
			ErrInvalidConfig, c.Origin, c.TapeSize)
	}

	if c.EOFValue != nil && (*c.EOFValue < 0 || *c.EOFValue > 255) {
		return fmt.Errorf("%w: eof value must be in 0..255, got %d",
			ErrInvalidConfig, *c.EOFValue)
	}

	if c.InstsPerTick < 1 {
		return fmt.Errorf("%w: need at least 1 instruction per tick, got %d",
			ErrInvalidConfig, c.InstsPerTick)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level maps LogLevel to a slog level. "trace" selects core.LevelTrace.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "trace":
		return core.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q",
			ErrInvalidConfig, c.LogLevel)
	}
}

// MachineConfig converts the configuration into the form the engine takes.
func (c Config) MachineConfig() core.MachineConfig {
	mc := core.DefaultMachineConfig()
	mc.TapeSize = c.TapeSize
	mc.Origin = c.Origin
	mc.BoundsCheck = c.BoundsCheck

	if c.EOFValue != nil {
		mc.EOF = core.EOFValue
		mc.EOFValue = byte(*c.EOFValue)
	}

	return mc
}
