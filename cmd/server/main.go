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

	"github.com/bbernstein/weatherdash/internal/app"
	"github.com/bbernstein/weatherdash/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weatherdash",
	Short: "Weather widget dashboard backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var cacheConfigCmd = &cobra.Command{
	Use:   "cache-config",
	Short: "Print the effective weather cache configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCacheConfig(cmd, config.GetCacheConfig())
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd, cacheConfigCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadFromEnv()
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.ServerPort = port
	}
	cacheCfg := config.GetCacheConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, cacheCfg, nil)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	if cacheCfg.EnableSweep {
		if err := a.Sweeper.Start(); err != nil {
			return fmt.Errorf("starting cache sweeper: %w", err)
		}
		defer a.Sweeper.Stop()
	}

	server := &http.Server{
		Handler:      a.Router,
		Addr:         ":" + cfg.ServerPort,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting weather API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func printCacheConfig(cmd *cobra.Command, cfg *config.CacheConfig) error {
	out := cmd.OutOrStdout()
	_, err := fmt.Fprintf(out,
		"ttl:            %s\nsweep interval: %s\nsweep enabled:  %t\nmax entries:    %d\n",
		cfg.GetTTL(), cfg.GetSweepInterval(), cfg.EnableSweep, cfg.MaxEntries)
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
