// Package config loads LumiDB's runtime configuration from a YAML file,
// environment variables, and defaults, grounded on the teacher's
// internal/config package (same viper layering, same Validate step).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration LumiDB reads at startup.
type Config struct {
	Log       LogConfig  `mapstructure:"log"`
	REPL      REPLConfig `mapstructure:"repl"`
	PluginDir string     `mapstructure:"plugin_dir"`
}

// LogConfig controls the logger's level, encoding, and sink.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// REPLConfig controls the interactive shell's line editor.
type REPLConfig struct {
	HistoryFile string `mapstructure:"history_file"`
	Prompt      string `mapstructure:"prompt"`
}

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		REPL: REPLConfig{
			HistoryFile: "lumidb_history.txt",
			Prompt:      "lumidb> ",
		},
		PluginDir: "./plugins",
	}
}

// Load reads configuration from configPath if non-empty, else from
// ./lumidb.yaml if present, falling back to defaults either way, then
// overlays LUMIDB_-prefixed environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output", cfg.Log.Output)
	v.SetDefault("repl.history_file", cfg.REPL.HistoryFile)
	v.SetDefault("repl.prompt", cfg.REPL.Prompt)
	v.SetDefault("plugin_dir", cfg.PluginDir)

	v.SetEnvPrefix("LUMIDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("lumidb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		_ = v.ReadInConfig()
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that configuration values are sensible.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	return nil
}
