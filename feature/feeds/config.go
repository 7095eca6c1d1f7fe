package feeds

import (
	"time"

	"feedmark/core/page"
)

// Config holds configuration for feed detection and tag resolution.
type Config struct {
	// SiteURL is the base URL of the feed host, used to look up canonical tags.
	SiteURL string `mapstructure:"site_url" default:""`
	// ResolverTTLSeconds is how long a resolved tag stays cached.
	ResolverTTLSeconds int `mapstructure:"resolver_ttl_seconds" default:"3600"`
	// ResolverRate is the number of lookups per second sent to the host.
	ResolverRate float64 `mapstructure:"resolver_rate" default:"2"`
	// ResolverBurst is the number of lookups allowed in a burst.
	ResolverBurst int `mapstructure:"resolver_burst" default:"4"`
	// ResolverTimeoutSeconds bounds one lookup.
	ResolverTimeoutSeconds int `mapstructure:"resolver_timeout_seconds" default:"10"`
	// Selectors describe the rendered page layout.
	Selectors page.Selectors `mapstructure:"selectors"`
}

// TTL returns the resolver cache lifetime.
func (c Config) TTL() time.Duration {
	return time.Duration(c.ResolverTTLSeconds) * time.Second
}

// Timeout returns the resolver request timeout.
func (c Config) Timeout() time.Duration {
	if c.ResolverTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ResolverTimeoutSeconds) * time.Second
}
