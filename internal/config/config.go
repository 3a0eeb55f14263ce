// Package config loads scratchpad settings.
//
// Precedence, highest first: CLI flags, SCRATCHPAD_* environment variables
// (optionally seeded from a .env file), then a .scratchpad.yaml config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Supported storage adapters.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SCRATCHPAD"

// Config represents the global configuration.
type Config struct {
	LogLevel  string `mapstructure:"log-level" json:"logLevel"`
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// Adapter selects the storage medium: fs, sqlite or memory.
	Adapter string `mapstructure:"adapter" json:"adapter"`

	// Path is the storage location (directory for fs, database file or
	// directory for sqlite). Empty means auto-discovery: the nearest
	// .scratchpad directory above the working directory, else DefaultPath.
	Path string `mapstructure:"path" json:"path"`

	// Debounce is the quiet period before the editor autosaves.
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`

	// DevSafety redirects storage into a temp dir under `go run` / `go test`.
	DevSafety bool `mapstructure:"dev-safety" json:"devSafety"`

	ReadOnly bool `mapstructure:"read-only" json:"readOnly"`

	// ConfigFile is the resolved path to the config file used.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// DefaultPath returns the per-user storage directory.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "scratchpad")
	}
	return ".scratchpad"
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:  LogLevelWarn,
		LogFormat: LogFormatText,
		Adapter:   AdapterFS,
		Debounce:  500 * time.Millisecond,
		DevSafety: true,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	switch c.Adapter {
	case AdapterFS, AdapterSQLite, AdapterMemory:
	default:
		return fmt.Errorf("invalid adapter %q: must be one of fs, sqlite, memory", c.Adapter)
	}

	if c.Debounce <= 0 {
		return fmt.Errorf("invalid debounce %s: must be positive", c.Debounce)
	}

	return nil
}

// LoadDotEnv is replaceable in tests.
var LoadDotEnv = godotenv.Load

// Load initialises configuration from flags, environment variables, an
// optional .env file and an optional config file. A fresh viper instance is
// used on every call.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	if err := LoadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("adapter", d.Adapter)
	v.SetDefault("path", "")
	v.SetDefault("debounce", d.Debounce)
	v.SetDefault("dev-safety", d.DevSafety)
	v.SetDefault("read-only", d.ReadOnly)
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	v.SetConfigName(".scratchpad")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "scratchpad"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags binds the command's own flags and every persistent flag up to
// the root. Only flags the user actually set override lower sources.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}
