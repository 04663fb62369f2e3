// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// OutputText streams the tool output as-is.
	OutputText OutputFormat = "text"
	// OutputJSON prints one JSON document describing the result.
	OutputJSON OutputFormat = "json"
	// OutputTOML prints one TOML document describing the result.
	OutputTOML OutputFormat = "toml"

	// MaxProbeTimeout bounds the bridge existence check.
	MaxProbeTimeout = 5 * time.Second
)

var (
	// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects how the execution result is rendered.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// Config is the complete nmapw configuration.
	Config struct {
		// Tool is the scanner executable name.
		Tool string `json:"tool" mapstructure:"tool"`
		// Bridge configures the WSL bridge used on Windows.
		Bridge BridgeConfig `json:"bridge" mapstructure:"bridge"`
		// ScanTimeout bounds total wall-clock time of one scan.
		ScanTimeout time.Duration `json:"scan_timeout" mapstructure:"scan_timeout"`
		// Output selects the result rendering.
		Output OutputFormat `json:"output" mapstructure:"output"`
		// Log configures the diagnostic logger.
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures terminal presentation.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// BridgeConfig configures the Linux-subsystem bridge.
	BridgeConfig struct {
		Command      string        `json:"command" mapstructure:"command"`
		Distribution string        `json:"distribution" mapstructure:"distribution"`
		ProbeTimeout time.Duration `json:"probe_timeout" mapstructure:"probe_timeout"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level string `json:"level" mapstructure:"level"`
	}

	// UIConfig configures terminal presentation.
	UIConfig struct {
		// Verbose shows full error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidConfigError is returned when a Config has one or more invalid fields.
	// It wraps the individual field validation errors for inspection.
	InvalidConfigError struct {
		FieldErrs []error
	}
)

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat so callers can use errors.Is for programmatic detection.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// Validate returns an error if the OutputFormat is not recognized.
func (f OutputFormat) Validate() error {
	switch f {
	case OutputText, OutputJSON, OutputTOML:
		return nil
	default:
		return &InvalidOutputFormatError{Value: f}
	}
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsStructured reports whether the format prints a machine-readable document.
func (f OutputFormat) IsStructured() bool { return f == OutputJSON || f == OutputTOML }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrs...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is/As inspection.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrs...)
}

// Validate checks every field of the Config and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Tool == "" {
		errs = append(errs, errors.New("tool must not be empty"))
	}
	if c.Bridge.Command == "" {
		errs = append(errs, errors.New("bridge.command must not be empty"))
	}
	if c.Bridge.ProbeTimeout <= 0 || c.Bridge.ProbeTimeout > MaxProbeTimeout {
		errs = append(errs, fmt.Errorf("bridge.probe_timeout %s must be in (0, %s]", c.Bridge.ProbeTimeout, MaxProbeTimeout))
	}
	if c.ScanTimeout <= 0 {
		errs = append(errs, fmt.Errorf("scan_timeout %s must be positive", c.ScanTimeout))
	}
	if err := c.Output.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrs: errs}
	}
	return nil
}
