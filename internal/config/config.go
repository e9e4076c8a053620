package config

import "fmt"

// Config represents the complete verus-rewrite configuration.
// It can be loaded from .verus-rewrite/config.yml with environment variable
// overrides.
type Config struct {
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Format FormatConfig `yaml:"format" mapstructure:"format"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// PathsConfig defines which files to rewrite and which to ignore.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for dialect sources
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// FormatConfig defines how reconstructed output is delivered.
type FormatConfig struct {
	Write bool `yaml:"write" mapstructure:"write"` // rewrite files in place instead of stdout
}

// WatchConfig defines watch-mode behavior.
type WatchConfig struct {
	DebounceMs int      `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before rerunning
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`   // file extensions to monitor
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Code: []string{
				"**/*.rs",
				"**/*.vrs",
			},
			Ignore: []string{
				"target/**",
				".git/**",
				".verus-rewrite/**",
			},
		},
		Format: FormatConfig{
			Write: false,
		},
		Watch: WatchConfig{
			DebounceMs: 500,
			Extensions: []string{".rs", ".vrs"},
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if len(c.Paths.Code) == 0 {
		return fmt.Errorf("paths.code must contain at least one pattern")
	}
	if c.Watch.DebounceMs <= 0 {
		return fmt.Errorf("watch.debounce_ms must be positive, got %d", c.Watch.DebounceMs)
	}
	if len(c.Watch.Extensions) == 0 {
		return fmt.Errorf("watch.extensions must contain at least one extension")
	}
	return nil
}
