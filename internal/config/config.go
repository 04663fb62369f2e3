// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/nmapw/nmapw/internal/issue"
	"github.com/nmapw/nmapw/pkg/platform"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "nmapw"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override (NMAPW_SCAN_TIMEOUT, ...).
	EnvPrefix = "NMAPW"
	// ConfigPathEnv names an explicit config file.
	ConfigPathEnv = EnvPrefix + "_CONFIG"

	// configPathKey is the viper key bound to ConfigPathEnv.
	configPathKey = "config"

	// maxConfigFileSize rejects config files that are obviously not config.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	bridge := platform.DefaultBridge()
	return &Config{
		Tool: "nmap",
		Bridge: BridgeConfig{
			Command:      bridge.Command,
			Distribution: bridge.Distribution,
			ProbeTimeout: MaxProbeTimeout,
		},
		ScanTimeout: 600 * time.Second,
		Output:      OutputText,
		Log:         LogConfig{Level: "warn"},
	}
}

// ConfigDir returns the nmapw configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load resolves and validates the configuration. It returns the path of the
// config file that was read, or "" when only defaults and environment
// overrides apply.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("tool", defaults.Tool)
	v.SetDefault("bridge.command", defaults.Bridge.Command)
	v.SetDefault("bridge.distribution", defaults.Bridge.Distribution)
	v.SetDefault("bridge.probe_timeout", defaults.Bridge.ProbeTimeout)
	v.SetDefault("scan_timeout", defaults.ScanTimeout)
	v.SetDefault("output", string(defaults.Output))
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	path := opts.ConfigFilePath
	if path == "" {
		path = v.GetString(configPathKey)
	}

	resolvedPath := ""
	if path != "" {
		// An explicitly requested file must exist.
		if !fileExists(path) {
			return nil, "", loadError(path, fmt.Errorf("config file not found: %s", path),
				"Verify the file path is correct",
				"Unset "+ConfigPathEnv+" to use the default configuration")
		}
		resolvedPath = path
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			var err error
			if cfgDir, err = ConfigDir(); err != nil {
				return nil, "", err
			}
		}
		if cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(cuePath) {
			resolvedPath = cuePath
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", loadError(resolvedPath, err,
				"Check that the file contains valid CUE syntax",
				"Verify the configuration values match the expected schema")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", loadError(resolvedPath, fmt.Errorf("failed to parse config: %w", err),
			"Durations must be Go duration strings such as \"5s\" or \"10m\"")
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("bridge.probe_timeout must not exceed " + MaxProbeTimeout.String()).
			WithSuggestion("output must be one of text, json, toml").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("config file is %d bytes, limit is %d", len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err())
	}

	// Unify with schema to validate against the #Config definition.
	// Concrete(false) because every config field is optional.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// formatCUEError flattens a CUE error list into one readable message.
func formatCUEError(err error) error {
	return errors.New(strings.TrimSpace(cueerrors.Details(err, nil)))
}

func loadError(path string, cause error, suggestions ...string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestions(suggestions...).
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(cause).
		BuildError()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
