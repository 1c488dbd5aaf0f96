package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wadash/wadash/account"
	"github.com/wadash/wadash/gateway"
	"github.com/wadash/wadash/observability"
	"github.com/wadash/wadash/web"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to gateway config JSON file")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		apiKey     = flag.String("api-key", "", "API key for the send endpoint (overrides config)")
		dialer     = flag.String("dialer", "", "Protocol dialer name (overrides config)")
		createUser = flag.String("create-user", "", "Create a dashboard account as user:password and exit")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg := gateway.DefaultConfig()
	if *configFile != "" {
		loaded, err := gateway.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *addr != "" {
		cfg.Web.Addr = *addr
	}
	if *apiKey != "" {
		cfg.Web.APIKey = *apiKey
	}
	if *dialer != "" {
		cfg.Dialer = *dialer
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	accounts, err := account.NewStore(cfg.AccountsDB)
	if err != nil {
		log.Fatalf("Failed to open account store: %v", err)
	}
	defer accounts.Close()

	if *createUser != "" {
		username, password, ok := strings.Cut(*createUser, ":")
		if !ok || username == "" || password == "" {
			fmt.Fprintln(os.Stderr, "Usage: wadash -create-user <username>:<password>")
			os.Exit(1)
		}
		if _, err := accounts.Create(username, password); err != nil {
			log.Fatalf("Failed to create account: %v", err)
		}
		fmt.Printf("Account %q created\n", username)
		return
	}

	g, err := gateway.New(&cfg, gateway.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg.Web, g, accounts, logger); err != nil {
		log.Fatalf("Serve failed: %v", err)
	}
}

// serve runs the gateway and the HTTP server until ctx is cancelled or
// either one fails, then shuts both down. The gateway result is received
// exactly once; a context cancellation is a clean exit.
func serve(ctx context.Context, webCfg gateway.WebConfig, g *gateway.Gateway, accounts *account.Store, logger *slog.Logger) error {
	gatewayDone := make(chan error, 1)
	go func() {
		gatewayDone <- g.Run(ctx)
	}()

	server := &http.Server{
		Addr:    webCfg.Addr,
		Handler: web.NewServer(g, accounts, webCfg.APIKey, logger).Router(),
	}

	serverDone := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening", slog.String("addr", webCfg.Addr))
		serverDone <- server.ListenAndServe()
	}()

	gatewayStopped := false
	select {
	case <-ctx.Done():
	case err := <-serverDone:
		return fmt.Errorf("http server: %w", err)
	case err := <-gatewayDone:
		gatewayStopped = true
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("gateway: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", slog.String("error", err.Error()))
	}

	if !gatewayStopped {
		<-gatewayDone
	}
	return nil
}
