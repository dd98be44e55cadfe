package harvest

import (
	"strings"
	"time"
)

// DefaultTimeout bounds every page fetch unless configured otherwise.
const DefaultTimeout = 5 * time.Second

// DefaultUserAgent is sent with every request unless configured otherwise.
const DefaultUserAgent = "Mozilla/5.0 (compatible; harvest/1.0)"

// Config is the read-only configuration shared by every probe of a run.
type Config struct {
	// Targets are the facts looked for on every organization.
	Targets []Target

	// Paths are probed in order; earlier paths take priority.
	Paths []string

	// Timeout bounds each page fetch. A timed-out page is skipped.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Delay is the minimum interval between requests to the same host.
	// Zero disables politeness delays.
	Delay time.Duration

	// Concurrency is the number of organizations probed at once.
	Concurrency int

	// Cache shares fetched pages between organizations with the same domain.
	Cache bool
}

// WithDefaults returns a copy of c with zero fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	return c
}

// Validate returns an error if a run cannot start with this configuration.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return Errorf(EINVALID, "at least one target required")
	}
	seen := make(map[string]bool)
	for _, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID()] {
			return Errorf(EINVALID, "duplicate target %q", t.ID())
		}
		seen[t.ID()] = true
	}
	if len(c.Paths) == 0 {
		return Errorf(EINVALID, "at least one path required")
	}
	for _, p := range c.Paths {
		if !strings.HasPrefix(p, "/") {
			return Errorf(EINVALID, "path %q must start with /", p)
		}
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative")
	}
	return nil
}
