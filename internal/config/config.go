package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pders01/fsearch/internal/validation"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Regex   RegexConfig   `mapstructure:"regex"`
	PDF     PDFConfig     `mapstructure:"pdf"`
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
}

type OutputConfig struct {
	Target string `mapstructure:"target"`
	File   string `mapstructure:"file"`
}

type RegexConfig struct {
	// Timeout bounds one regex test; 0 disables the limit.
	Timeout time.Duration `mapstructure:"timeout"`
}

type PDFConfig struct {
	SnippetGraphemes int `mapstructure:"snippet_graphemes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

func defaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Target: "console",
		},
		Regex: RegexConfig{
			Timeout: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "off",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    validation.DefaultHistoryPath(),
			Limit:   20,
		},
	}
}

// setDefaults registers every leaf key so that environment overrides such
// as FSEARCH_LOG_LEVEL are seen by Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("output.target", cfg.Output.Target)
	v.SetDefault("output.file", cfg.Output.File)
	v.SetDefault("regex.timeout", cfg.Regex.Timeout)
	v.SetDefault("pdf.snippet_graphemes", cfg.PDF.SnippetGraphemes)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("history.limit", cfg.History.Limit)
}

// Load reads configPath, or config.toml from the fsearch config directory
// when configPath is empty. A missing default file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(validation.DefaultConfigPath()))
	}

	v.SetEnvPrefix("FSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.Regex.Timeout < 0 {
		return nil, fmt.Errorf("regex.timeout must not be negative, got %s", config.Regex.Timeout)
	}
	if config.PDF.SnippetGraphemes < 0 {
		return nil, fmt.Errorf("pdf.snippet_graphemes must not be negative, got %d", config.PDF.SnippetGraphemes)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Output.File = expandPath(cfg.Output.File)
}

// Save writes config as TOML. Durations are stored as strings.
func Save(config *Config, path string) error {
	doc := map[string]interface{}{
		"output": map[string]interface{}{
			"target": config.Output.Target,
			"file":   config.Output.File,
		},
		"regex": map[string]interface{}{
			"timeout": config.Regex.Timeout.String(),
		},
		"pdf": map[string]interface{}{
			"snippet_graphemes": config.PDF.SnippetGraphemes,
		},
		"log": map[string]interface{}{
			"level": config.Log.Level,
			"file":  config.Log.File,
		},
		"history": map[string]interface{}{
			"enabled": config.History.Enabled,
			"path":    config.History.Path,
			"limit":   config.History.Limit,
		},
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
