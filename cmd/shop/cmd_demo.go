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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/demoapi"
)

var demoAddr string

// demoServerCmd serves the fixture backend
var demoServerCmd = &cobra.Command{
	Use:   "demo-server",
	Short: "Run a local backend with fixture products and reviews",
	Long: `Serves GET /products, GET /reviews and POST /order from an in-memory
fixture catalog. Point the client at it with --api http://localhost:8080.`,
	Args: cobra.NoArgs,
	RunE: runDemoServer,
}

func init() {
	demoServerCmd.Flags().StringVar(&demoAddr, "addr", ":8080", "Listen address")
}

func runDemoServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              demoAddr,
		Handler:           demoapi.NewFixture().Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Demo backend listening", zap.String("addr", demoAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("demo server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("demo server shutdown: %w", err)
	}
	return nil
}
