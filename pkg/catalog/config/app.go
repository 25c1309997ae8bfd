package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
)

// Environment variables that override file settings.
const (
	EnvRules     = "TCM_RULES"
	EnvPolicy    = "TCM_POLICY"
	EnvDatabase  = "TCM_DATABASE"
	EnvOutputDir = "TCM_OUTPUT_DIR"
	EnvWorkers   = "TCM_WORKERS"
	EnvLogLevel  = "TCM_LOG_LEVEL"
	EnvLogFormat = "TCM_LOG_FORMAT"
	EnvAddr      = "TCM_ADDR"
)

// App holds process-level settings shared by the command line tools.
type App struct {
	Rules     string       `yaml:"rules" toml:"rules"`
	Policy    string       `yaml:"policy" toml:"policy"`
	Database  string       `yaml:"database" toml:"database"`
	OutputDir string       `yaml:"output_dir" toml:"output_dir"`
	Workers   int          `yaml:"workers" toml:"workers"`
	Log       LogConfig    `yaml:"log" toml:"log"`
	Server    ServerConfig `yaml:"server" toml:"server"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // console or json
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// LoadApp reads settings from path (YAML or TOML by extension, optional),
// applies a .env file and TCM_* variables, and fills defaults.
func LoadApp(path string) (*App, error) {
	cfg := &App{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given files, skipping missing ones.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func unmarshal(path string, data []byte, cfg *App) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: unsupported config format %q", internalerr.ErrInvalidConfig, filepath.Ext(path))
	}
}

func (c *App) finalize() error {
	c.loadEnv()
	c.loadDefaults()
	return c.validate()
}

func (c *App) loadDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join("data", "real-data")
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

func (c *App) loadEnv() {
	if v := os.Getenv(EnvRules); v != "" {
		c.Rules = v
	}
	if v := os.Getenv(EnvPolicy); v != "" {
		c.Policy = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

func (c *App) validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", internalerr.ErrInvalidConfig, c.Log.Format)
	}
	return nil
}
