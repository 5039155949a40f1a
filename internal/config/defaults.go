package config

import "github.com/hyperjump/wordify/internal/extract"

// DefaultDatabasePath is where conversion history lives when not configured.
const DefaultDatabasePath = "~/.local/share/wordify/history.db"

// DefaultExtensions are the file types scanned and watched when not configured.
var DefaultExtensions = []string{
	".txt", ".md", ".rst", ".csv", ".pdf", ".docx", ".odt", ".rtf", ".xlsx", ".pptx", ".odp", ".ods",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = int(cfg.Server.RateLimit) + 1
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = expandPath(DefaultDatabasePath, "")
	}
	if cfg.Input.Encoding == "" {
		cfg.Input.Encoding = extract.DefaultEncoding
	}
	if cfg.Input.Extensions == nil {
		cfg.Input.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = append([]string(nil), cfg.Input.Extensions...)
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
