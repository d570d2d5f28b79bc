package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notehub/internal/config"
	httpx "notehub/internal/http"
	"notehub/internal/notehub"
	"notehub/internal/notes"
	"notehub/internal/query"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Note Hub pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := slog.Default()

		api := notehub.New(notehub.Options{
			BaseURL: cfg.APIBaseURL,
			Token:   cfg.APIToken,
			Timeout: cfg.APITimeout,
			Rate:    cfg.APIRate,
			Burst:   cfg.APIBurst,
		})
		q := notes.NewQueries(api, query.Options{
			StaleTime: cfg.QueryStaleTime,
			GCTime:    cfg.QueryGCTime,
			Timeout:   cfg.APITimeout,
			Logger:    logger,
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go q.Run(ctx)

		logger.Info("notes service", "url", cfg.APIBaseURL)
		return listenAndServe(ctx, cancel, cfg.HTTPAddr, httpx.NewRouter(ctx, cfg, q, logger))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// listenAndServe runs srv until SIGINT or SIGTERM, then cancels
// background work and drains connections for up to 5 seconds.
func listenAndServe(ctx context.Context, cancel context.CancelFunc, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case err := <-errCh:
		cancel()
		return err
	case <-ch:
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("stopped")
	return nil
}
