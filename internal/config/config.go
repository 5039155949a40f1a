// Package config provides configuration loading and structs for the wordify
// CLI and server. YAML and TOML files are supported.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/wordify/internal/extract"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug" toml:"debug"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Input   InputConfig   `yaml:"input" toml:"input"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Watch   WatchConfig   `yaml:"watch" toml:"watch"`
}

// ServerConfig holds HTTP server settings. RateLimit is requests per second
// per client; zero disables limiting.
type ServerConfig struct {
	Host      string  `yaml:"host" toml:"host" validate:"required"`
	Port      int     `yaml:"port" toml:"port" validate:"min=1,max=65535"`
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit" validate:"gte=0"`
	RateBurst int     `yaml:"rate_burst" toml:"rate_burst" validate:"gte=0"`
}

// StorageConfig holds the conversion history database settings.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" toml:"database_path" validate:"required"`
	// History enables persisting conversions made from the CLI.
	History bool `yaml:"history" toml:"history"`
}

// InputConfig controls how plain-text input is read.
type InputConfig struct {
	Encoding   string   `yaml:"encoding" toml:"encoding" validate:"encoding"`
	Extensions []string `yaml:"extensions" toml:"extensions" validate:"dive,startswith=."`
}

// OutputConfig controls how conversions are printed.
type OutputConfig struct {
	Format       string `yaml:"format" toml:"format" validate:"oneof=text json"`
	SerialCommas bool   `yaml:"serial_commas" toml:"serial_commas"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories" toml:"directories"`
	Extensions  []string `yaml:"extensions" toml:"extensions" validate:"dive,startswith=."`
	Recursive   *bool    `yaml:"recursive" toml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("encoding", func(fl validator.FieldLevel) bool {
		return extract.CheckEncoding(fl.Field().String()) == nil
	})
	return v
}

// Validate checks cfg against the field rules. Call after ApplyDefaults.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns a validated configuration built from defaults only.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// isTOML reports whether path names a TOML file.
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads and parses the config file at path, applies defaults, expands
// paths and validates the result. ".toml" files are parsed as TOML, anything
// else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to path in the format its extension selects. Used
// for persisting watch directory add/remove.
func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir,
// "~/" paths to the home directory; other relative paths are left to the working directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
