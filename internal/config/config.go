// Package config loads and validates rise-tracker configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Repo    RepoConfig    `mapstructure:"repo"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Site    SiteConfig    `mapstructure:"site"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RepoConfig locates the site repository and names the remote to publish to.
type RepoConfig struct {
	Path      string `mapstructure:"path"`
	Remote    string `mapstructure:"remote"`
	Branch    string `mapstructure:"branch"`
	GitBinary string `mapstructure:"git_binary"`
}

// ScraperConfig governs listing discovery and page fetching.
// When Command is set, the update pipeline runs that external program instead
// of the in-process scraper and trusts only its exit status.
type ScraperConfig struct {
	Command            string   `mapstructure:"command"`
	Seeds              []string `mapstructure:"seeds"`
	ManualURLs         []string `mapstructure:"manual_urls"`
	AutoDiscover       bool     `mapstructure:"auto_discover"`
	MinArea            float64  `mapstructure:"min_area"`
	MaxArea            float64  `mapstructure:"max_area"`
	UserAgent          string   `mapstructure:"user_agent"`
	DelayMs            int      `mapstructure:"delay_ms"`
	DiscoverDelayMs    int      `mapstructure:"discover_delay_ms"`
	TimeoutSeconds     int      `mapstructure:"timeout_seconds"`
	MaxDiscoveredPages int      `mapstructure:"max_discovered_pages"`
}

// SiteConfig sets where generated artifacts and price history live.
type SiteConfig struct {
	OutputDir   string `mapstructure:"output_dir"`
	TrackerFile string `mapstructure:"tracker_file"`
	HistoryDir  string `mapstructure:"history_dir"`
}

// ServerConfig controls the serve command's HTTP listener.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("repo.path", ".")
	v.SetDefault("repo.remote", "origin")
	v.SetDefault("repo.branch", "main")
	v.SetDefault("repo.git_binary", "git")
	v.SetDefault("scraper.auto_discover", true)
	v.SetDefault("scraper.seeds", []string{
		"https://www.livable.co.jp/mansion/C13252K32/",
		"https://www.livable.co.jp/mansion/C48258711/",
		"https://www.livable.co.jp/mansion/C13259K25/",
	})
	v.SetDefault("scraper.min_area", 65.0)
	v.SetDefault("scraper.max_area", 80.0)
	v.SetDefault("scraper.user_agent", "rise-tracker/1.0")
	v.SetDefault("scraper.delay_ms", 1000)
	v.SetDefault("scraper.discover_delay_ms", 500)
	v.SetDefault("scraper.timeout_seconds", 15)
	v.SetDefault("scraper.max_discovered_pages", 200)
	v.SetDefault("site.output_dir", ".")
	v.SetDefault("site.tracker_file", "price_tracker.json")
	v.SetDefault("site.history_dir", "history")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Repo.Path == "" {
		return fmt.Errorf("repo.path must be set")
	}
	if c.Repo.Remote == "" {
		return fmt.Errorf("repo.remote must be set")
	}
	if c.Repo.Branch == "" {
		return fmt.Errorf("repo.branch must be set")
	}
	if c.Repo.GitBinary == "" {
		return fmt.Errorf("repo.git_binary must be set")
	}
	if c.Scraper.Command == "" {
		if c.Scraper.AutoDiscover && len(c.Scraper.Seeds) == 0 {
			return fmt.Errorf("scraper.seeds must include at least one URL when auto_discover is on")
		}
		if !c.Scraper.AutoDiscover && len(c.Scraper.ManualURLs) == 0 {
			return fmt.Errorf("scraper.manual_urls must include at least one URL when auto_discover is off")
		}
	}
	if c.Scraper.MinArea < 0 {
		return fmt.Errorf("scraper.min_area must be >= 0")
	}
	if c.Scraper.MaxArea <= c.Scraper.MinArea {
		return fmt.Errorf("scraper.max_area must be > scraper.min_area")
	}
	if c.Scraper.UserAgent == "" {
		return fmt.Errorf("scraper.user_agent must be set")
	}
	if c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.timeout_seconds must be > 0")
	}
	if c.Scraper.MaxDiscoveredPages <= 0 {
		return fmt.Errorf("scraper.max_discovered_pages must be > 0")
	}
	if c.Site.OutputDir == "" {
		return fmt.Errorf("site.output_dir must be set")
	}
	if c.Site.TrackerFile == "" {
		return fmt.Errorf("site.tracker_file must be set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// RequestTimeout converts the scraper timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// FetchDelay is the pause between listing page fetches.
func (c Config) FetchDelay() time.Duration {
	return time.Duration(c.Scraper.DelayMs) * time.Millisecond
}

// DiscoverDelay is the pause between discovery fetches.
func (c Config) DiscoverDelay() time.Duration {
	return time.Duration(c.Scraper.DiscoverDelayMs) * time.Millisecond
}
