package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sydlexius/mbmerge/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MBM_"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	Logging    logging.Config `yaml:"logging"`
	Submit     SubmitConfig   `yaml:"submit"`
	Sources    SourcesConfig  `yaml:"sources"`
	BannedURLs []string       `yaml:"banned_urls"`
}

// ServerConfig holds the local form server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SubmitConfig controls how finished submissions leave the program.
type SubmitConfig struct {
	// Harmony makes the registry redirect to Harmony after submitting.
	Harmony     bool   `yaml:"harmony"`
	OpenBrowser bool   `yaml:"open_browser"`
	DumpDir     string `yaml:"dump_dir"`
}

// SourcesConfig holds catalog client settings.
type SourcesConfig struct {
	UserAgent    string `yaml:"user_agent"`
	DiscogsToken string `yaml:"discogs_token"`
	Concurrency  int    `yaml:"concurrency"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 5050,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(defaultDataDir(), "mbmerge.db"),
		},
		Logging: logging.DefaultConfig(),
		Submit: SubmitConfig{
			Harmony:     true,
			OpenBrowser: true,
		},
		Sources: SourcesConfig{
			Concurrency: 4,
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "mbmerge")
	}
	return ".mbmerge"
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables, after loading a .env file from the working
// directory when one is present. Environment variables take precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() error {
	if v := env("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", EnvPrefix, err)
		}
		c.Server.Port = port
	}
	if v := env("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := env("LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
	if v := env("HARMONY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sHARMONY: %w", EnvPrefix, err)
		}
		c.Submit.Harmony = b
	}
	if v := env("OPEN_BROWSER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sOPEN_BROWSER: %w", EnvPrefix, err)
		}
		c.Submit.OpenBrowser = b
	}
	if v := env("DUMP_DIR"); v != "" {
		c.Submit.DumpDir = v
	}
	if v := env("USER_AGENT"); v != "" {
		c.Sources.UserAgent = v
	}
	// DISCOGS_TOKEN is also honored without the prefix.
	if v := env("DISCOGS_TOKEN"); v != "" {
		c.Sources.DiscogsToken = v
	} else if v := os.Getenv("DISCOGS_TOKEN"); v != "" {
		c.Sources.DiscogsToken = v
	}
	if v := env("CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCONCURRENCY: %w", EnvPrefix, err)
		}
		c.Sources.Concurrency = n
	}
	if v := env("BANNED_URLS"); v != "" {
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				c.BannedURLs = append(c.BannedURLs, u)
			}
		}
	}
	return nil
}

func env(name string) string {
	return os.Getenv(EnvPrefix + name)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Sources.Concurrency < 1 {
		return fmt.Errorf("invalid source concurrency: %d", c.Sources.Concurrency)
	}
	return nil
}

// DataDir is the directory holding the database, used for the process lock.
func (c *Config) DataDir() string {
	return filepath.Dir(c.Database.Path)
}
