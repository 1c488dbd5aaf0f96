package supervisor

import "time"

// Config holds reconnect tuning for the supervisor. Backoff applies only to
// recoverable closures; an explicit logout is terminal regardless.
type Config struct {
	// InitialBackoffMS is the delay before the first reconnect attempt.
	InitialBackoffMS int `json:"initial_backoff_ms"`

	// MaxBackoffMS caps the exponential backoff between attempts.
	MaxBackoffMS int `json:"max_backoff_ms"`

	// MaxRetries bounds consecutive failed reconnect attempts. 0 retries
	// forever, matching the behavior this service replaced.
	MaxRetries int `json:"max_retries,omitempty"`
}

// DefaultConfig returns reconnect settings of 1s initial backoff, doubling
// to a 30s ceiling, with unlimited attempts.
func DefaultConfig() Config {
	return Config{
		InitialBackoffMS: 1000,
		MaxBackoffMS:     30000,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.InitialBackoffMS > 0 {
		c.InitialBackoffMS = source.InitialBackoffMS
	}
	if source.MaxBackoffMS > 0 {
		c.MaxBackoffMS = source.MaxBackoffMS
	}
	if source.MaxRetries > 0 {
		c.MaxRetries = source.MaxRetries
	}
}

func (c Config) initialBackoff() time.Duration {
	if c.InitialBackoffMS <= 0 {
		return time.Second
	}
	return time.Duration(c.InitialBackoffMS) * time.Millisecond
}

func (c Config) maxBackoff() time.Duration {
	if c.MaxBackoffMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.MaxBackoffMS) * time.Millisecond
}
