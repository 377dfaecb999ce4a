package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete ringtail configuration
type Config struct {
	Buffer  BufferConfig  `mapstructure:"buffer" yaml:"buffer" json:"buffer"`
	Tail    TailConfig    `mapstructure:"tail" yaml:"tail" json:"tail"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// BufferConfig controls ring buffers that aren't sized by a more specific setting
type BufferConfig struct {
	// Capacity is the default ring capacity for replay scripts that don't set one (default: 16)
	Capacity int `mapstructure:"capacity" yaml:"capacity" json:"capacity"`
}

// TailConfig controls the tail command
type TailConfig struct {
	// Lines is how many trailing lines to retain (default: 10, 0 keeps nothing)
	Lines int `mapstructure:"lines" yaml:"lines" json:"lines"`
	// Match is a glob pattern lines must match to be retained (default: "" matches all)
	Match string `mapstructure:"match" yaml:"match" json:"match"`
	// Level is the minimum slog level for JSON log lines (default: "" disables filtering)
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	// Color is "auto", "always", or "never" (default: "auto")
	Color string `mapstructure:"color" yaml:"color" json:"color"`
	// Format is "text", "json", or "yaml" (default: "text")
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// LoggingConfig controls diagnostic logging
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "warn")
	Level string `mapstructure:"level" yaml:"level" json:"level"`
	// File is where logs are written; empty logs to stderr
	File string `mapstructure:"file" yaml:"file" json:"file"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Buffer: BufferConfig{
			Capacity: 16,
		},
		Tail: TailConfig{
			Lines: 10,
		},
		Output: OutputConfig{
			Color:  "auto",
			Format: "text",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("buffer.capacity", defaults.Buffer.Capacity)

	viper.SetDefault("tail.lines", defaults.Tail.Lines)
	viper.SetDefault("tail.match", defaults.Tail.Match)
	viper.SetDefault("tail.level", defaults.Tail.Level)

	viper.SetDefault("output.color", defaults.Output.Color)
	viper.SetDefault("output.format", defaults.Output.Format)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ringtail")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ringtail"
	}
	return filepath.Join(home, ".config", "ringtail")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
