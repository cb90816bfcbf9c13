// Package config loads the secureshare settings: defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/konorlevich/secureshare/internal/inspect"
	"github.com/konorlevich/secureshare/internal/store/database"
)

const (
	EnvDBFile         = "SECURESHARE_DB_FILE"
	EnvLogLevel       = "SECURESHARE_LOG_LEVEL"
	EnvInspectWorkers = "SECURESHARE_INSPECT_WORKERS"
)

type Config struct {
	// DBFile is the SQLite file holding every record.
	DBFile   string `yaml:"db_file"`
	LogLevel string `yaml:"log_level"`
	// SQLLog prints the statements gorm runs.
	SQLLog         bool `yaml:"sql_log"`
	InspectWorkers int  `yaml:"inspect_workers"`
}

func Default() *Config {
	return &Config{
		DBFile:         database.DefaultFile,
		LogLevel:       log.WarnLevel.String(),
		InspectWorkers: inspect.DefaultWorkers,
	}
}

// Load builds the configuration. An empty path skips the YAML file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("can't read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("can't parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if d := os.Getenv(EnvDBFile); d != "" {
		c.DBFile = d
	}
	if l := os.Getenv(EnvLogLevel); l != "" {
		c.LogLevel = l
	}
	if w := os.Getenv(EnvInspectWorkers); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvInspectWorkers, err)
		}
		c.InspectWorkers = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DBFile == "" {
		return fmt.Errorf("db_file is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.InspectWorkers < 1 {
		return fmt.Errorf("inspect_workers must be positive, got %d", c.InspectWorkers)
	}
	return nil
}

// Logger returns a logrus entry at the configured level.
func (c *Config) Logger() *log.Entry {
	l := log.New()
	l.SetOutput(os.Stderr)
	if lvl, err := log.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	return l.WithField("db_file", c.DBFile)
}
