package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cakehq/cake/internal/adminapi"
	"github.com/cakehq/cake/internal/config"
	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve DBPATH",
	Short: "Start the admin API server (HTTP + WebSocket control plane) over a store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runServe(args[0])
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "admin-addr", "", "override the configured admin API listen address (host:port)")
}

// runServe starts the admin API server over the store at path, grounded on
// the teacher's cmd/api-server/main.go graceful-shutdown pattern:
// signal.Notify on SIGINT/SIGTERM followed by a bounded-timeout Shutdown.
func runServe(path string) {
	cfg, err := config.Load()
	if err != nil {
		exitWithError("failed to load configuration", err)
	}
	logger.Init(cfg.LogLevel, os.Getenv("ENV") != "production")
	log := logger.Get()

	ctx := context.Background()
	s, err := store.Open(ctx, path, store.Config{})
	if err != nil {
		exitWithError("failed to open store", err)
	}
	defer s.Close(ctx)

	server := adminapi.NewServer(cfg, s)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.AdminPort)
	if serveAddr != "" {
		addr = serveAddr
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	server.Start(hubCtx)

	go func() {
		log.Info().Str("addr", addr).Msg("admin API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("admin API server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down admin API server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	server.Stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("admin API server shutdown error")
	}
}
