// Package config loads ascent settings from an optional YAML file, with
// environment variables taking precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the file nor the environment set a value.
const (
	DefaultDatabasePath = "ascent.db"
	DefaultExportDir    = "exported"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config holds all application configuration.
type Config struct {
	DatabasePath string  `yaml:"database_path"`
	ExportDir    string  `yaml:"export_dir"`
	Log          Logging `yaml:"log"`
}

// Logging selects the slog handler.
type Logging struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and then the environment:
//
//	ASCENT_DB          database path
//	ASCENT_EXPORT_DIR  snapshot directory
//	ASCENT_LOG_LEVEL   log level
//	ASCENT_LOG_FORMAT  log format
func Load(path string) (*Config, error) {
	cfg := &Config{
		DatabasePath: DefaultDatabasePath,
		ExportDir:    DefaultExportDir,
		Log: Logging{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DatabasePath = getEnv("ASCENT_DB", cfg.DatabasePath)
	cfg.ExportDir = getEnv("ASCENT_EXPORT_DIR", cfg.ExportDir)
	cfg.Log.Level = getEnv("ASCENT_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("ASCENT_LOG_FORMAT", cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DatabasePath) == "" {
		problems = append(problems, "database_path must not be empty")
	}
	if strings.TrimSpace(c.ExportDir) == "" {
		problems = append(problems, "export_dir must not be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
