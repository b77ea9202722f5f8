package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Target: "console",
		},
		Regex: RegexConfig{
			Timeout: 100 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "off",
		},
		History: HistoryConfig{
			Enabled: false, // Keep test runs out of the user's history
			Limit:   5,
		},
	}
}
