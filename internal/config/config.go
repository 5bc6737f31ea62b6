// SPDX-License-Identifier: MIT

// Package config loads the engine process configuration.
//
// Sources, highest priority first:
//
//  1. Command-line flags
//  2. Environment variables (MATINV_ prefix, dashes become underscores:
//     MATINV_WORKERS, MATINV_VERIFY_TOLERANCE, ...)
//  3. An optional config file (--config, any format viper reads)
//  4. Default values
//
// All values are validated on load.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/matinv/harness"
	"github.com/katalvlaran/matinv/inverse"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "MATINV"

// Keys shared by flags, environment and config files.
const (
	KeyConfig          = "config"
	KeyWorkers         = "workers"
	KeyTolerance       = "tolerance"
	KeyVerify          = "verify"
	KeyVerifyTolerance = "verify-tolerance"
	KeyInput           = "input"
	KeyTimeout         = "timeout"
	KeyLogLevel        = "log-level"
	KeyLogFormat       = "log-format"
	KeyMetricsFile     = "metrics-file"
)

// StdinPath selects standard input for KeyInput.
const StdinPath = "-"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the resolved process configuration.
type Config struct {
	Workers         int           // 0 = runtime.NumCPU()
	Tolerance       float64       // relative pivot threshold
	Verify          bool          // compare serial and parallel inverses
	VerifyTolerance float64       // element-wise agreement bound
	Input           string        // request document path; "-" = stdin
	Timeout         time.Duration // 0 = no deadline
	LogLevel        string        // debug|info|warn|error
	LogFormat       string        // json|console
	MetricsFile     string        // prometheus text file; "" = disabled
}

// NewFlagSet declares every flag with its default.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String(KeyConfig, "", "optional config file (yaml, json, toml)")
	fs.Int(KeyWorkers, 0, "parallel worker count (0 = number of CPUs)")
	fs.Float64(KeyTolerance, inverse.DefaultPivotTolerance, "relative pivot threshold")
	fs.Bool(KeyVerify, true, "verify that serial and parallel inverses agree")
	fs.Float64(KeyVerifyTolerance, harness.DefaultVerifyTolerance, "agreement tolerance for --verify")
	fs.String(KeyInput, StdinPath, "request document path, - for stdin")
	fs.Duration(KeyTimeout, 0, "abort the computation after this long (0 = never)")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn, error")
	fs.String(KeyLogFormat, "json", "log format: json, console")
	fs.String(KeyMetricsFile, "", "write prometheus metrics to this file on exit")

	return fs
}

// Load parses args and resolves the configuration.
// pflag.ErrHelp is returned unwrapped when -h/--help is given.
func Load(args []string) (*Config, error) {
	fs := NewFlagSet("matinv")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{
		Workers:         v.GetInt(KeyWorkers),
		Tolerance:       v.GetFloat64(KeyTolerance),
		Verify:          v.GetBool(KeyVerify),
		VerifyTolerance: v.GetFloat64(KeyVerifyTolerance),
		Input:           v.GetString(KeyInput),
		Timeout:         v.GetDuration(KeyTimeout),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		MetricsFile:     v.GetString(KeyMetricsFile),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%s must be >= 0, got %d: %w", KeyWorkers, c.Workers, ErrInvalidConfig)
	case math.IsNaN(c.Tolerance) || c.Tolerance < 0 || c.Tolerance >= 1:
		return fmt.Errorf("%s must be in [0, 1), got %g: %w", KeyTolerance, c.Tolerance, ErrInvalidConfig)
	case c.Verify && (math.IsNaN(c.VerifyTolerance) || math.IsInf(c.VerifyTolerance, 0) || c.VerifyTolerance <= 0):
		return fmt.Errorf("%s must be > 0, got %g: %w", KeyVerifyTolerance, c.VerifyTolerance, ErrInvalidConfig)
	case c.Input == "":
		return fmt.Errorf("%s must not be empty: %w", KeyInput, ErrInvalidConfig)
	case c.Timeout < 0:
		return fmt.Errorf("%s must be >= 0, got %s: %w", KeyTimeout, c.Timeout, ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: unknown level %q: %w", KeyLogLevel, c.LogLevel, ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%s: unknown format %q: %w", KeyLogFormat, c.LogFormat, ErrInvalidConfig)
	}

	return nil
}

// HarnessOptions translates the configuration into harness options.
func (c *Config) HarnessOptions() []harness.Option {
	opts := []harness.Option{
		harness.WithWorkers(c.Workers),
		harness.WithTolerance(c.Tolerance),
	}
	if c.Verify {
		opts = append(opts, harness.WithVerify(c.VerifyTolerance))
	} else {
		opts = append(opts, harness.WithoutVerify())
	}

	return opts
}
