// Command terse-demo serves sample JSON APIs with TerseJSON negotiation.
//
// It offers:
//   - Sample list endpoints (users, orders) that send envelopes to consumers
//     sending Accept-Terse
//   - SQLite persistence of one metrics event per response
//   - Endpoints reporting recent events and per-endpoint savings
//
// Usage:
//
//	terse-demo [flags]
//
// Flags:
//
//	--addr string       listen address (default ":8080")
//	--db string         SQLite database path (default "./terse-demo.db")
//	--config string     codec settings file (YAML or JSONC)
//	--log-level string  log level: debug, info, warn, error (overrides the config)
//
// Examples:
//
//	# Start the demo and fetch users both ways
//	terse-demo
//	curl localhost:8080/api/v1/users
//	curl -H 'Accept-Terse: 1' localhost:8080/api/v1/users
//
//	# Use an in-memory database
//	terse-demo --db :memory:
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/timclausendev-web/tersejson-sub001/pkg/config"
)

// Version information - set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("terse-demo", pflag.ContinueOnError)
	addr := fs.String("addr", ":8080", "listen address")
	dbPath := fs.String("db", "./terse-demo.db", "SQLite database path")
	configPath := fs.String("config", "", "codec settings file (YAML or JSONC)")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error (overrides the config)")
	showVersion := fs.Bool("version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Printf("terse-demo %s (built %s, commit %s)\n", Version, BuildDate, GitCommit)
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	srv, err := NewServer(ServerConfig{
		Addr:    *addr,
		DBPath:  *dbPath,
		Version: Version,
		Codec:   cfg,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create server: %v\n", err)
		return 1
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting terse demo",
			slog.String("addr", *addr),
			slog.String("db", *dbPath),
			slog.String("pattern", cfg.Pattern),
			slog.Int("min_payload_bytes", cfg.MinPayloadBytes),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error: server failed: %v\n", err)
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", slog.String("error", err.Error()))
		}
	}

	return 0
}
