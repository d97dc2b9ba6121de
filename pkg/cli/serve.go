package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cycle-insights/pkg/calculator"
	"cycle-insights/pkg/httpapi"
)

// --- cycle-insights serve ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "Listen port (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetInt("port"); p > 0 {
		cfg.HTTPPort = p
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory, ready, closeFn, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	base := cfg.Engine("")
	if raw, _ := cmd.Flags().GetString("today"); raw != "" {
		now, err := clock(cmd)
		if err != nil {
			return err
		}
		base.Today = now()
	}

	handler := httpapi.NewHandler(func(userID string) calculator.Sources { return factory(userID) }, base)
	handler.Ready = ready

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpapi.NewRouter(handler, cfg.Verbose),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[INFO] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
