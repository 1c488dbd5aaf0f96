// Package gateway composes the messaging subsystems into one runnable unit:
// protocol dialer, connection supervisor, directory cache, ingest pipeline,
// update feed, and send pipeline.
//
// The gateway initializes from configuration via New, creating all
// subsystems internally. Functional options allow test overrides of any
// subsystem.
//
//	g, err := gateway.New(&cfg)
//	go g.Run(ctx)
//	result := g.Send(ctx, "Alice", "hello")
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wadash/wadash/core/protocol"
	"github.com/wadash/wadash/creds"
	"github.com/wadash/wadash/directory"
	"github.com/wadash/wadash/feed"
	"github.com/wadash/wadash/ingest"
	"github.com/wadash/wadash/observability"
	"github.com/wadash/wadash/outbound"
	"github.com/wadash/wadash/state"
	"github.com/wadash/wadash/supervisor"
)

// Option configures a Gateway during New, before subsystems are wired.
type Option func(*options)

type options struct {
	dialer      protocol.Dialer
	observer    observability.Observer
	logger      *slog.Logger
	credentials creds.Store
}

// WithDialer overrides the config-selected protocol dialer.
func WithDialer(d protocol.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithObserver overrides the config-selected observer.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger overrides the default logger used by the feed.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCredentialStore overrides the config-created file credential store.
func WithCredentialStore(store creds.Store) Option {
	return func(o *options) { o.credentials = store }
}

// Gateway is the composed messaging core.
type Gateway struct {
	cfg      Config
	observer observability.Observer

	state      *state.Store
	dir        *directory.Cache
	feed       *feed.Feed
	supervisor *supervisor.Supervisor
	sender     *outbound.Sender
}

// New creates a Gateway from configuration. The dialer and observer are
// resolved from their registries by name; functional options can override
// any subsystem for testing.
func New(cfg *Config, opts ...Option) (*Gateway, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.dialer == nil {
		d, err := protocol.GetDialer(cfg.Dialer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve dialer: %w", err)
		}
		o.dialer = d
	}
	if o.observer == nil {
		obs, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		o.observer = obs
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.credentials == nil {
		o.credentials = creds.NewFileStore(cfg.CredentialsDir)
	}

	st := state.NewStore()
	dir := directory.NewCache()
	fd := feed.New(cfg.FeedBuffer, o.logger)
	pipeline := ingest.New(dir, fd, o.observer, cfg.NumberPlan.GroupSuffix, cfg.AutoReply)

	sup := supervisor.New(cfg.Supervisor, supervisor.Deps{
		Dialer:      o.dialer,
		Credentials: o.credentials,
		State:       st,
		Directory:   dir,
		Feed:        fd,
		Messages:    pipeline,
		Observer:    o.observer,
	})

	return &Gateway{
		cfg:        *cfg,
		observer:   o.observer,
		state:      st,
		dir:        dir,
		feed:       fd,
		supervisor: sup,
		sender:     outbound.NewSender(st, sup, dir, cfg.NumberPlan, o.observer),
	}, nil
}

// Run drives the connection lifecycle until ctx is cancelled. The feed is
// closed on the way out, releasing every subscriber.
func (g *Gateway) Run(ctx context.Context) error {
	g.observer.OnEvent(ctx, observability.Event{
		Type:      EventStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "gateway.Run",
		Data: map[string]any{
			"dialer": g.cfg.Dialer,
		},
	})

	err := g.supervisor.Run(ctx)
	g.feed.Close()

	g.observer.OnEvent(ctx, observability.Event{
		Type:      EventStop,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "gateway.Run",
		Data:      nil,
	})
	return err
}

// Status returns a point-in-time snapshot of the connection state.
func (g *Gateway) Status() state.Snapshot {
	return g.state.Snapshot()
}

// Send resolves the recipient identifier and transmits text through the
// current session.
func (g *Gateway) Send(ctx context.Context, to, text string) outbound.SendResult {
	return g.sender.Send(ctx, to, text)
}

// Subscribe registers a new feed subscriber. Returns nil after the gateway
// has stopped.
func (g *Gateway) Subscribe() *feed.Subscription {
	return g.feed.Subscribe()
}

// Unsubscribe removes a feed subscriber.
func (g *Gateway) Unsubscribe(id string) {
	g.feed.Unsubscribe(id)
}

// Directory exposes the contact and group cache.
func (g *Gateway) Directory() *directory.Cache {
	return g.dir
}
