// Package config handles objtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Loader   LoaderConfig   `yaml:"loader"`
	Textures TexturesConfig `yaml:"textures"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoaderConfig holds model parsing settings.
type LoaderConfig struct {
	Scale  float32 `yaml:"scale"`  // Factor applied to every position
	Strict bool    `yaml:"strict"` // Abort on the first malformed line
}

// TexturesConfig holds texture resolution settings.
type TexturesConfig struct {
	Load        bool `yaml:"load"`         // Decode texture files referenced by materials
	SkipMissing bool `yaml:"skip_missing"` // Leave the handle at 0 instead of failing
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Loader: LoaderConfig{
			Scale:  0.05,
			Strict: false,
		},
		Textures: TexturesConfig{
			Load:        true,
			SkipMissing: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
