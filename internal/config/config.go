// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Webshare WebshareConfig `toml:"webshare"`
	PyLoad   PyLoadConfig   `toml:"pyload"`
	Sonarr   *ArrConfig     `toml:"sonarr"`
	Radarr   *ArrConfig     `toml:"radarr"`
	Plex     *PlexConfig    `toml:"plex"`
	Search   SearchConfig   `toml:"search"`
	Mover    MoverConfig    `toml:"mover"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	LockPath string `toml:"lock_path"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// WebshareConfig configures the search provider.
type WebshareConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// PyLoadConfig configures the download agent.
type PyLoadConfig struct {
	URL         string `toml:"url"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	DownloadDir string `toml:"download_dir"`
}

// ArrConfig configures one library manager instance.
type ArrConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// PlexConfig configures the optional media server.
type PlexConfig struct {
	URL        string `toml:"url"`
	Token      string `toml:"token"`
	LocalPath  string `toml:"local_path"`
	RemotePath string `toml:"remote_path"`
}

// SearchConfig tunes ranking and the query cache.
type SearchConfig struct {
	PreferredLanguage string   `toml:"preferred_language"`
	LanguageBonus     int      `toml:"language_bonus"`
	MinQuality        string   `toml:"min_quality"`
	MaxSizeGB         float64  `toml:"max_size_gb"`
	Limit             int      `toml:"limit"`
	TopN              int      `toml:"top_n"`
	CacheTTL          duration `toml:"cache_ttl"`
}

// MoverConfig tunes the reconciliation loop and retention.
type MoverConfig struct {
	Interval      duration `toml:"interval"`
	Grace         duration `toml:"grace"`
	RetentionDays int      `toml:"retention_days"`
}

// duration parses TOML strings like "30s" or "5m".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Duration converts to time.Duration.
func (d duration) Duration() time.Duration { return time.Duration(d) }

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8787
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.LockPath == "" {
		c.Server.LockPath = "./data/fetcharr.lock"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/fetcharr.db"
	}
	if c.Webshare.URL == "" {
		c.Webshare.URL = "https://webshare.cz/api"
	}
	if c.Search.PreferredLanguage == "" {
		c.Search.PreferredLanguage = "cs"
	}
	if c.Search.LanguageBonus == 0 {
		c.Search.LanguageBonus = 50
	}
	if c.Search.Limit == 0 {
		c.Search.Limit = 50
	}
	if c.Search.TopN == 0 {
		c.Search.TopN = 10
	}
	if c.Search.CacheTTL == 0 {
		c.Search.CacheTTL = duration(6 * time.Hour)
	}
	if c.Mover.Interval == 0 {
		c.Mover.Interval = duration(time.Minute)
	}
	if c.Mover.Grace == 0 {
		c.Mover.Grace = duration(5 * time.Minute)
	}
	if c.Mover.RetentionDays == 0 {
		c.Mover.RetentionDays = 30
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match
	})
}
