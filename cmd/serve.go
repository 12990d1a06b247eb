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

	"github.com/spf13/cobra"

	"github.com/cwbudde/mountaincarga/internal/config"
	"github.com/cwbudde/mountaincarga/internal/server"
	"github.com/cwbudde/mountaincarga/internal/store"
)

var (
	servePort               int
	serveStore              string
	serveDataDir            string
	serveCheckpointInterval int
	serveNoStore            bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP job server",
	Long: `Starts an HTTP server that runs optimization jobs in the background,
streams progress over server-sent events and stores results. Settings from
--config are used as the defaults for job requests.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	defaults := config.Default()
	serveCmd.Flags().IntVar(&servePort, "port", defaults.Server.Port, "Port to listen on")
	serveCmd.Flags().StringVar(&serveStore, "store", defaults.Store.Backend, "Store backend (fs, sqlite)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", defaults.Store.DataDir, "Base directory for stored solutions")
	serveCmd.Flags().IntVar(&serveCheckpointInterval, "checkpoint-interval", defaults.Server.CheckpointInterval, "Save the running best every N generations (0 = only at the end)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "Keep results in memory only")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := *loadedConfig()
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = servePort
	}
	if flags.Changed("store") {
		cfg.Store.Backend = serveStore
	}
	if flags.Changed("data-dir") {
		cfg.Store.DataDir = serveDataDir
	}
	if flags.Changed("checkpoint-interval") {
		cfg.Server.CheckpointInterval = serveCheckpointInterval
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var st store.Persistence
	if !serveNoStore {
		var err error
		st, err = store.NewStore(cfg.Store.Backend, cfg.Store.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.CloseIfSupported(st)
	}

	srv := server.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), st)
	srv.SetDefaults(server.JobConfig{
		GA:                 cfg.GA,
		Convergence:        cfg.Convergence,
		EnvSeed:            cfg.Environment.Seed,
		CheckpointInterval: cfg.Server.CheckpointInterval,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		slog.Info("Received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
