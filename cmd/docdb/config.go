package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Bench   BenchConfig   `yaml:"bench"`
}

// StoreConfig selects and tunes the database backend.
type StoreConfig struct {
	Backend        string `yaml:"backend"`  // fs, bolt (default: fs)
	Root           string `yaml:"root"`     // directory for fs, file for bolt
	Encoding       string `yaml:"encoding"` // json, msgpack (default: json)
	MaxFolderDepth int    `yaml:"max_folder_depth"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: warn)
	Format string `yaml:"format"` // text, json (default: text)
}

// BenchConfig holds defaults for the bench command.
type BenchConfig struct {
	Count   int `yaml:"count"`
	Workers int `yaml:"workers"`
}

// LoadConfig reads a YAML file, or returns defaults when path is empty.
func LoadConfig(path string) (Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return Config{}, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// readConfig parses the file without applying defaults, so that command-line
// overrides can be layered on first.
func readConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		// Substitute env variables of the form ${VAR}
		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "fs"
	}
	if c.Store.Root == "" {
		if c.Store.Backend == "bolt" {
			c.Store.Root = "docdb.db"
		} else {
			c.Store.Root = "docdb"
		}
	}
	if c.Store.Encoding == "" {
		c.Store.Encoding = "json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Bench.Count <= 0 {
		c.Bench.Count = 1000
	}
	if c.Bench.Workers <= 0 {
		c.Bench.Workers = 8
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "fs", "bolt", "mem":
	default:
		return fmt.Errorf("store.backend must be \"fs\", \"bolt\" or \"mem\", got %q", c.Store.Backend)
	}
	switch c.Store.Encoding {
	case "json", "msgpack":
	default:
		return fmt.Errorf("store.encoding must be \"json\" or \"msgpack\", got %q", c.Store.Encoding)
	}
	if c.Store.MaxFolderDepth < 0 {
		return fmt.Errorf("store.max_folder_depth must not be negative, got %d", c.Store.MaxFolderDepth)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
