package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/adrg/xdg"
	"github.com/matheuskafuri/jsweekly/internal/logger"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Cache backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Placeholders substituted when the issue number cannot be read (ERR1),
// the issue cannot be fetched (ERR2) or the date cannot be read (ERR3).
type Placeholders struct {
	ERR1 string `yaml:"ERR1"`
	ERR2 string `yaml:"ERR2"`
	ERR3 string `yaml:"ERR3"`
}

type FetchConfig struct {
	Timeout      string `yaml:"timeout"`
	UserAgent    string `yaml:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type RefreshConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
	Timezone string `yaml:"timezone"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type CacheConfig struct {
	Backend string      `yaml:"backend"`
	Path    string      `yaml:"path"`
	Redis   RedisConfig `yaml:"redis"`
}

type Config struct {
	Identifier           string        `yaml:"identifier"`
	AllowedLinks         []string      `yaml:"allowed_links"`
	IssueRoot            string        `yaml:"issue_root"`
	Latest               string        `yaml:"latest"`
	MinArticleSummaryLen int           `yaml:"min_article_summary_len"`
	Err                  Placeholders  `yaml:"err"`
	Fetch                FetchConfig   `yaml:"fetch"`
	Server               ServerConfig  `yaml:"server"`
	Refresh              RefreshConfig `yaml:"refresh"`
	Cache                CacheConfig   `yaml:"cache"`
	Log                  logger.Config `yaml:"log"`
}

// FetchTimeout returns the HTTP client timeout, defaulting to 30s.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Fetch.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Port returns the listen port. The PORT environment variable wins over the file.
func (c *Config) Port() int {
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		return p
	}
	if c.Server.Port <= 0 {
		return 3000
	}
	return c.Server.Port
}

// Location resolves the refresh timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Refresh.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CachePath returns where the selected backend keeps its data.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	if c.Cache.Backend == BackendFile {
		return filepath.Join(xdg.CacheHome, "jsweekly", "issues")
	}
	return filepath.Join(xdg.CacheHome, "jsweekly", "jsweekly.db")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "jsweekly", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location) on top of the
// embedded defaults. A missing file is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: embedded defaults are enough to run
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.Identifier == "" && len(cfg.AllowedLinks) == 0 {
		return fmt.Errorf("identifier or allowed_links is required")
	}
	for _, f := range []struct{ name, raw string }{
		{"issue_root", cfg.IssueRoot},
		{"latest", cfg.Latest},
	} {
		name, raw := f.name, f.raw
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
		}
	}
	if cfg.MinArticleSummaryLen < 0 {
		return fmt.Errorf("min_article_summary_len must not be negative, got %d", cfg.MinArticleSummaryLen)
	}
	if err := ValidateBackend(cfg.Cache.Backend); err != nil {
		return err
	}
	if cfg.Refresh.Enabled {
		if _, err := cron.ParseStandard(cfg.Refresh.Schedule); err != nil {
			return fmt.Errorf("refresh.schedule %q: %w", cfg.Refresh.Schedule, err)
		}
		if _, err := time.LoadLocation(cfg.Refresh.Timezone); err != nil {
			return fmt.Errorf("refresh.timezone %q: %w", cfg.Refresh.Timezone, err)
		}
	}
	return nil
}

// ValidateBackend reports whether name is a known cache backend.
func ValidateBackend(name string) error {
	switch name {
	case BackendSQLite, BackendFile, BackendMemory, BackendRedis:
		return nil
	}
	return fmt.Errorf("unknown cache backend %q (valid: sqlite, file, memory, redis)", name)
}
