// Package config loads application settings from an optional YAML file and
// TRADESCOUT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/poiesic/tradescout/ai"
	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/interchange"
	"github.com/poiesic/tradescout/scrape"
)

// EnvPrefix prefixes every environment variable, e.g. TRADESCOUT_ORACLE_MODEL.
const EnvPrefix = "TRADESCOUT"

// Config holds all configuration for the application
type Config struct {
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Search    SearchConfig    `mapstructure:"search"`
	Scrape    ScrapeConfig    `mapstructure:"scrape"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Server    ServerConfig    `mapstructure:"server"`

	// Categories overrides individual entries of core.DefaultCategoryToggles.
	// Keys are matched case-insensitively since YAML keys are lowercased on load.
	Categories map[string]bool `mapstructure:"categories"`
}

// OracleConfig holds the relevance oracle connection
type OracleConfig struct {
	Host              string        `mapstructure:"host"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Temperature       float64       `mapstructure:"temperature"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// SearchConfig holds ranking and display limits
type SearchConfig struct {
	MaxCandidates   int `mapstructure:"max_candidates"`
	MinFuzzyScore   int `mapstructure:"min_fuzzy_score"`
	MinDisplayScore int `mapstructure:"min_display_score"`
	DisplayLimit    int `mapstructure:"display_limit"`
}

// ScrapeConfig holds scraper settings
type ScrapeConfig struct {
	URL                   string        `mapstructure:"url"`
	OutputFile            string        `mapstructure:"output_file"`
	MaxRecordsPerCategory int           `mapstructure:"max_records_per_category"`
	MaxPasses             int           `mapstructure:"max_passes"`
	MaxStalledPasses      int           `mapstructure:"max_stalled_passes"`
	SettleDelay           time.Duration `mapstructure:"settle_delay"`
	GrowthTimeout         time.Duration `mapstructure:"growth_timeout"`
}

// StorageConfig holds the catalog database location
type StorageConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// SchedulerConfig holds the periodic load settings
type SchedulerConfig struct {
	Schedule  string        `mapstructure:"schedule"`
	Retention time.Duration `mapstructure:"retention"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

// Load reads configuration. When path is empty, tradescout.yaml is looked up in
// the working directory and ~/.config/tradescout and may be absent; an explicit
// path must exist. Environment variables override the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tradescout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tradescout")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	oracle := ai.DefaultConfig()
	v.SetDefault("oracle.host", oracle.Host)
	v.SetDefault("oracle.api_key", oracle.APIKey)
	v.SetDefault("oracle.model", oracle.Model)
	v.SetDefault("oracle.temperature", oracle.Temperature)
	v.SetDefault("oracle.max_tokens", oracle.MaxTokens)
	v.SetDefault("oracle.timeout", oracle.Timeout)
	v.SetDefault("oracle.requests_per_second", oracle.RequestsPerSecond)

	v.SetDefault("search.max_candidates", 500)
	v.SetDefault("search.min_fuzzy_score", 40)
	v.SetDefault("search.min_display_score", 5)
	v.SetDefault("search.display_limit", 500)

	extractor := scrape.DefaultExtractorConfig()
	v.SetDefault("scrape.url", "https://www.alibaba.com/new-arrivals")
	v.SetDefault("scrape.output_file", interchange.DefaultFileName)
	v.SetDefault("scrape.max_records_per_category", 0)
	v.SetDefault("scrape.max_passes", extractor.MaxPasses)
	v.SetDefault("scrape.max_stalled_passes", extractor.MaxStalledPasses)
	v.SetDefault("scrape.settle_delay", extractor.SettleDelay)
	v.SetDefault("scrape.growth_timeout", extractor.GrowthTimeout)

	v.SetDefault("storage.path", "tradescout-data")
	v.SetDefault("storage.in_memory", false)

	v.SetDefault("scheduler.schedule", "@hourly")
	v.SetDefault("scheduler.retention", 30*24*time.Hour)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.AI().Validate(); err != nil {
		return err
	}
	if c.Search.MaxCandidates < 0 || c.Search.MinFuzzyScore < 0 || c.Search.MinFuzzyScore > 100 {
		return fmt.Errorf("search limits out of range")
	}
	if c.Scrape.MaxRecordsPerCategory < 0 {
		return fmt.Errorf("scrape.max_records_per_category cannot be negative")
	}
	if err := c.Extractor().Validate(); err != nil {
		return err
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Scheduler.Schedule == "" {
		return fmt.Errorf("scheduler.schedule is required")
	}
	if c.Scheduler.Retention <= 0 {
		return fmt.Errorf("scheduler.retention must be positive")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got: %s", c.Server.Mode)
	}
	return nil
}

// AI returns the oracle settings as an ai.Config.
func (c *Config) AI() *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.Oracle.Host),
		ai.WithAPIKey(c.Oracle.APIKey),
		ai.WithModel(c.Oracle.Model),
		ai.WithTemperature(c.Oracle.Temperature),
		ai.WithMaxTokens(c.Oracle.MaxTokens),
		ai.WithTimeout(c.Oracle.Timeout),
		ai.WithRequestsPerSecond(c.Oracle.RequestsPerSecond),
	)
}

// Extractor returns the scrape pacing settings applied to the default selectors.
func (c *Config) Extractor() *scrape.ExtractorConfig {
	cfg := scrape.DefaultExtractorConfig()
	cfg.MaxPasses = c.Scrape.MaxPasses
	cfg.MaxStalledPasses = c.Scrape.MaxStalledPasses
	cfg.SettleDelay = c.Scrape.SettleDelay
	cfg.GrowthTimeout = c.Scrape.GrowthTimeout
	return cfg
}

// Session returns the tab settings for a scrape session.
func (c *Config) Session() *scrape.SessionConfig {
	cfg := scrape.DefaultSessionConfig()
	cfg.MaxRecordsPerCategory = c.Scrape.MaxRecordsPerCategory
	return cfg
}

// Toggles returns the default category toggles with Categories applied.
func (c *Config) Toggles() core.CategoryToggles {
	toggles := core.DefaultCategoryToggles()
	for name, enabled := range c.Categories {
		toggles.Set(name, enabled)
	}
	return toggles
}
