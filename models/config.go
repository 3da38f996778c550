package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the static crawler configuration loaded from config.yaml.
// CLI flags may override individual fields at startup.
type Config struct {
	EnabledSources []string `yaml:"enabled_sources"`
	DataDir        string   `yaml:"data_dir"`

	RequestTimeoutSeconds int    `yaml:"request_timeout"`
	MaxRetries            int    `yaml:"max_retries"`
	DefaultEncoding       string `yaml:"default_encoding"`

	// Times of day ("15:04") at which a scheduler would start crawl passes.
	// Parsed and validated here; process management is out of scope.
	CrawlSchedule []string `yaml:"crawl_schedule"`

	Classifier ClassifierConfig `yaml:"classifier"`
}

// ClassifierConfig exposes the quality-filter thresholds. The zero value is
// not usable; call Normalize to fill in the observed defaults.
type ClassifierConfig struct {
	MinContentLen int      `yaml:"min_content_len"`
	MinTitleLen   int      `yaml:"min_title_len"`
	MaxEmoji      int      `yaml:"max_emoji"`
	TopKeywords   int      `yaml:"top_keywords"`
	AdKeywords    []string `yaml:"ad_keywords"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = 15
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DefaultEncoding == "" {
		c.DefaultEncoding = "utf-8"
	}
	c.Classifier.Normalize()
}

// Normalize fills unset thresholds with the defaults observed in production.
func (cc *ClassifierConfig) Normalize() {
	if cc.MinContentLen <= 0 {
		cc.MinContentLen = 200
	}
	if cc.MinTitleLen <= 0 {
		cc.MinTitleLen = 10
	}
	if cc.MaxEmoji <= 0 {
		cc.MaxEmoji = 10
	}
	if cc.TopKeywords <= 0 {
		cc.TopKeywords = 10
	}
	if len(cc.AdKeywords) == 0 {
		cc.AdKeywords = DefaultAdKeywords()
	}
}

// Validate rejects configurations that would misbehave at runtime.
func (c *Config) Validate() error {
	for _, t := range c.CrawlSchedule {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("invalid crawl_schedule entry %q: %w", t, err)
		}
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DefaultAdKeywords is the curated advertisement blocklist applied to titles
// and bodies by the quality filter.
func DefaultAdKeywords() []string {
	return []string{
		"广告", "推广", "赞助", "下载APP", "下载app", "扫码关注",
		"点击领取", "开户有礼", "限时优惠", "立即抢购", "微信号",
	}
}

// DefaultConfig returns the configuration written by `newslook config init`.
func DefaultConfig() *Config {
	cfg := &Config{
		EnabledSources: []string{"新浪财经", "东方财富", "网易财经", "凤凰财经", "腾讯财经"},
		CrawlSchedule:  []string{"07:30", "12:30", "18:30"},
	}
	cfg.Normalize()
	return cfg
}

// Save writes the configuration back out as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
