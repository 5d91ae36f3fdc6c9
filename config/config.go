package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"civfeed/feeds"
)

// FeedConfig holds the mixing constants of the unified feed.
type FeedConfig struct {
	PostsRatio      float64 `toml:"posts_ratio"`
	NewsRatio       float64 `toml:"news_ratio"`
	ReelsRatio      float64 `toml:"reels_ratio"`
	DefaultPageSize int     `toml:"default_page_size"`
	MaxPageSize     int     `toml:"max_page_size"`
}

// TrendingSettings holds the trending view constants.
type TrendingSettings struct {
	PostShare         float64        `toml:"post_share"`
	NewsShare         float64        `toml:"news_share"`
	WindowDays        map[string]int `toml:"window_days"`
	DefaultWindowDays int            `toml:"default_window_days"`
	DefaultLimit      int            `toml:"default_limit"`
	MaxLimit          int            `toml:"max_limit"`
	CacheTTLSeconds   int            `toml:"cache_ttl_seconds"`
}

// Config is the top-level service configuration, loaded from TOML with
// flag/environment overrides applied by the cli layer.
type Config struct {
	Environment   string           `toml:"environment"`
	Hostname      string           `toml:"hostname"`
	Port          int              `toml:"port"`
	Database      string           `toml:"database"`
	RetentionDays int              `toml:"retention_days"`
	Feed          FeedConfig       `toml:"feed"`
	Trending      TrendingSettings `toml:"trending"`
}

// Default returns the configuration the service runs with when no file
// is given: 60/30/10 feed mix, 60/40 trending split, 24h/7d/30d windows.
func Default() *Config {
	return &Config{
		Environment:   "development",
		Hostname:      "localhost",
		Port:          3000,
		Database:      "civfeed.db",
		RetentionDays: 90,
		Feed: FeedConfig{
			PostsRatio:      0.6,
			NewsRatio:       0.3,
			ReelsRatio:      0.1,
			DefaultPageSize: feeds.DefaultPageSize,
			MaxPageSize:     feeds.MaxPageSize,
		},
		Trending: TrendingSettings{
			PostShare:         0.6,
			NewsShare:         0.4,
			WindowDays:        map[string]int{"24h": 1, "7d": 7},
			DefaultWindowDays: 30,
			DefaultLimit:      feeds.DefaultTrendingLimit,
			MaxLimit:          feeds.MaxTrendingLimit,
			CacheTTLSeconds:   60,
		},
	}
}

// LoadConfig reads a TOML file over the defaults. An empty path returns
// the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects configurations the engines cannot run with.
func (c *Config) Validate() error {
	ratioSum := c.Feed.PostsRatio + c.Feed.NewsRatio + c.Feed.ReelsRatio
	if c.Feed.PostsRatio < 0 || c.Feed.NewsRatio < 0 || c.Feed.ReelsRatio < 0 || ratioSum > 1.0001 {
		return fmt.Errorf("feed mix ratios must be non-negative and sum to at most 1, got %.2f/%.2f/%.2f",
			c.Feed.PostsRatio, c.Feed.NewsRatio, c.Feed.ReelsRatio)
	}
	if c.Trending.PostShare < 0 || c.Trending.NewsShare < 0 || c.Trending.PostShare+c.Trending.NewsShare > 1.0001 {
		return fmt.Errorf("trending shares must be non-negative and sum to at most 1, got %.2f/%.2f",
			c.Trending.PostShare, c.Trending.NewsShare)
	}
	if c.Feed.DefaultPageSize < 1 || c.Feed.MaxPageSize < c.Feed.DefaultPageSize {
		return fmt.Errorf("invalid page size bounds %d/%d", c.Feed.DefaultPageSize, c.Feed.MaxPageSize)
	}
	if c.Trending.DefaultLimit < 1 || c.Trending.MaxLimit < c.Trending.DefaultLimit {
		return fmt.Errorf("invalid trending limit bounds %d/%d", c.Trending.DefaultLimit, c.Trending.MaxLimit)
	}
	if c.Trending.DefaultWindowDays < 1 {
		return fmt.Errorf("default trending window must be at least one day, got %d", c.Trending.DefaultWindowDays)
	}
	if c.Trending.CacheTTLSeconds < 0 {
		return fmt.Errorf("trending cache TTL must not be negative, got %d", c.Trending.CacheTTLSeconds)
	}
	return nil
}

// Mix maps the feed section onto the composer's config.
func (c *Config) Mix() feeds.MixConfig {
	return feeds.MixConfig{
		Posts: c.Feed.PostsRatio,
		News:  c.Feed.NewsRatio,
		Reels: c.Feed.ReelsRatio,
	}
}

// TrendingConfig maps the trending section onto the ranker's config.
func (c *Config) TrendingConfig() feeds.TrendingConfig {
	return feeds.TrendingConfig{
		PostShare:         c.Trending.PostShare,
		NewsShare:         c.Trending.NewsShare,
		WindowDays:        c.Trending.WindowDays,
		DefaultWindowDays: c.Trending.DefaultWindowDays,
		Weights:           feeds.EngagementWeights{Likes: 1, Shares: 1, Comments: 1, Views: 1},
	}
}

// Production reports whether stack detail should be withheld from
// error payloads.
func (c *Config) Production() bool {
	return c.Environment == "production"
}
