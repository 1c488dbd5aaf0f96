package gateway

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wadash/wadash/ingest"
	"github.com/wadash/wadash/outbound"
	"github.com/wadash/wadash/supervisor"
)

const defaultFeedBuffer = 100

// WebConfig holds the HTTP surface settings.
type WebConfig struct {
	// Addr is the listen address of the dashboard server.
	Addr string `json:"addr"`

	// APIKey protects the machine-to-machine send endpoint. Empty disables
	// the endpoint.
	APIKey string `json:"api_key,omitempty"`
}

// Merge applies non-empty values from source into c.
func (c *WebConfig) Merge(source *WebConfig) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
}

// Config holds initialization parameters for all gateway subsystems.
// Each subsystem section delegates to that subsystem's config type.
type Config struct {
	// Dialer selects the protocol transport by registry name.
	Dialer string `json:"dialer"`

	// Observer selects the observer by registry name.
	Observer string `json:"observer"`

	// CredentialsDir is where the pairing credential blob is persisted.
	CredentialsDir string `json:"credentials_dir"`

	// AccountsDB is the SQLite database path for dashboard accounts.
	AccountsDB string `json:"accounts_db"`

	// FeedBuffer is the per-subscriber update buffer size.
	FeedBuffer int `json:"feed_buffer,omitempty"`

	Web        WebConfig           `json:"web"`
	Supervisor supervisor.Config   `json:"supervisor"`
	NumberPlan outbound.NumberPlan `json:"number_plan"`
	AutoReply  ingest.AutoReply    `json:"auto_reply,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Dialer:         "loopback",
		Observer:       "slog",
		CredentialsDir: "data/credentials",
		AccountsDB:     "data/accounts.db",
		FeedBuffer:     defaultFeedBuffer,
		Web:            WebConfig{Addr: ":3000"},
		Supervisor:     supervisor.DefaultConfig(),
		NumberPlan:     outbound.DefaultNumberPlan(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	if source.Dialer != "" {
		c.Dialer = source.Dialer
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.CredentialsDir != "" {
		c.CredentialsDir = source.CredentialsDir
	}
	if source.AccountsDB != "" {
		c.AccountsDB = source.AccountsDB
	}
	if source.FeedBuffer > 0 {
		c.FeedBuffer = source.FeedBuffer
	}

	c.Web.Merge(&source.Web)
	c.Supervisor.Merge(&source.Supervisor)
	c.NumberPlan.Merge(&source.NumberPlan)
	c.AutoReply.Merge(&source.AutoReply)
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
