// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Parent domain strategies.
const (
	StrategyHeuristic    = "heuristic"
	StrategyPublicSuffix = "publicsuffix"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIKey is the search provider credential. Empty is allowed; discovery
	// then fails with a missing credential error.
	APIKey string `koanf:"api_key"`
	// Model names the generative model queried for discovery.
	Model string `koanf:"model"`
	// ProviderBaseURL overrides the provider endpoint; empty uses the SDK default.
	ProviderBaseURL string `koanf:"provider_base_url"`

	// BatchSize is how many streamers one discovery asks for.
	BatchSize int `koanf:"batch_size"`
	// ViewerMin, ViewerMax and ViewerTarget bound the audience asked for.
	ViewerMin    int `koanf:"viewer_min"`
	ViewerMax    int `koanf:"viewer_max"`
	ViewerTarget int `koanf:"viewer_target"`

	// UpstreamTimeoutMS bounds one provider round trip.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`
	// UpstreamRPS and UpstreamBurst limit outbound discovery calls.
	UpstreamRPS   float64 `koanf:"upstream_rps"`
	UpstreamBurst int     `koanf:"upstream_burst"`

	// EmbedHostname is the host the player is embedded under.
	EmbedHostname string `koanf:"embed_hostname"`
	// ParentDomainStrategy is heuristic or publicsuffix.
	ParentDomainStrategy string `koanf:"parent_domain_strategy"`
	// ExtraParentDomains extends the embed allow-list.
	ExtraParentDomains []string `koanf:"extra_parent_domains"`
	// PlayerBaseURL and ThumbnailBaseURL override derived URL prefixes.
	PlayerBaseURL    string `koanf:"player_base_url"`
	ThumbnailBaseURL string `koanf:"thumbnail_base_url"`

	// LeaderboardDefaultLimit applies when no limit is given.
	LeaderboardDefaultLimit int `koanf:"leaderboard_default_limit"`
	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// VoteDedupeSize and OfflineDedupeSize bound the remembered votes and
	// offline channels.
	VoteDedupeSize    int `koanf:"vote_dedupe_size"`
	OfflineDedupeSize int `koanf:"offline_dedupe_size"`
	// CatalogSize bounds how many served streamers stay votable.
	CatalogSize int `koanf:"catalog_size"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":8080",
		Model:                   "gemini-3-flash-preview",
		BatchSize:               4,
		ViewerMin:               10,
		ViewerMax:               80,
		ViewerTarget:            30,
		UpstreamTimeoutMS:       30_000,
		UpstreamRPS:             2,
		UpstreamBurst:           2,
		ParentDomainStrategy:    StrategyHeuristic,
		LeaderboardDefaultLimit: 5,
		MaxLeaderboardLimit:     50,
		VoteDedupeSize:          100_000,
		OfflineDedupeSize:       10_000,
		CatalogSize:             10_000,
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	case c.ViewerMin < 0 || c.ViewerMin > c.ViewerMax:
		return fmt.Errorf("%w: viewer range %d..%d", ErrInvalidConfig, c.ViewerMin, c.ViewerMax)
	case c.UpstreamTimeoutMS < 0:
		return fmt.Errorf("%w: upstream_timeout_ms must not be negative", ErrInvalidConfig)
	case c.LeaderboardDefaultLimit < 1 || c.MaxLeaderboardLimit < c.LeaderboardDefaultLimit:
		return fmt.Errorf("%w: leaderboard limits %d/%d", ErrInvalidConfig, c.LeaderboardDefaultLimit, c.MaxLeaderboardLimit)
	}
	switch strings.ToLower(c.ParentDomainStrategy) {
	case StrategyHeuristic, StrategyPublicSuffix:
	default:
		return fmt.Errorf("%w %q", ErrUnknownStrategy, c.ParentDomainStrategy)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w %q", ErrUnknownLogFormat, c.LogFormat)
	}
	return nil
}
