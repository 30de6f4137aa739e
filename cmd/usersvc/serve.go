package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfagnish/users-api/internal/config"
	"github.com/alfagnish/users-api/internal/events"
	"github.com/alfagnish/users-api/internal/logging"
	"github.com/alfagnish/users-api/internal/rpc"
	"github.com/alfagnish/users-api/internal/server"
	"github.com/alfagnish/users-api/internal/users"
	"github.com/spf13/cobra"
)

var (
	servePort     int
	serveHost     string
	serveGRPCPort int
	serveNoSeed   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (and the gRPC listener when configured)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Port = servePort
		}
		if flags.Changed("host") {
			cfg.Host = serveHost
		}
		if flags.Changed("grpc-port") {
			cfg.GRPCPort = serveGRPCPort
		}
		if serveNoSeed {
			cfg.Seed = false
		}
		return runServer(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "HTTP port (overrides PORT)")
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Bind host (overrides HOST)")
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC port, 0 disables (overrides GRPC_PORT)")
	serveCmd.Flags().BoolVar(&serveNoSeed, "no-seed", false, "Start with an empty store")

	rootCmd.AddCommand(serveCmd)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat))

	// 1. Create the record store and the change feed.
	store := users.NewStore()
	if cfg.Seed {
		store = users.NewSeededStore()
	}
	hub := events.NewHub(events.DefaultBuffer)
	store.OnChange(hub.Observe)

	// 2. Set up the chi router with all handlers.
	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           server.New(cfg, store, hub, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // websocket feed is long-lived
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 2)

	// 3. Start the optional gRPC listener.
	var gs *rpc.Server
	if addr := cfg.GRPCAddr(); addr != "" {
		gs = rpc.NewServer(rpc.NewUserService(store), log)
		go func() {
			if err := gs.ListenAndServe(addr); err != nil {
				errc <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	// 4. Start the HTTP server.
	go func() {
		log.Info("server listening", "addr", srv.Addr, "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case runErr = <-errc:
		log.Error("server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown error", "error", err)
	}
	if gs != nil {
		gs.Shutdown(shutdownCtx)
	}

	log.Info("server stopped")
	return runErr
}
