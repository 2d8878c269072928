package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"chitsmart/config"
	"chitsmart/internal/handlers"
	"chitsmart/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web portal",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := config.App
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		s.HTTPAddr = addr
	}

	if err := config.InitSecurity(s); err != nil {
		return err
	}
	if err := config.InitCalculator(s); err != nil {
		return fmt.Errorf("invalid formulas: %w", err)
	}
	if err := config.ConnectStore(ctx, s); err != nil {
		return err
	}
	defer config.Store.Close()

	config.ConnectRedis(s.RedisAddr)
	if config.RDB != nil {
		defer config.RDB.Close()
	}
	if err := config.InitGoogleServices(ctx, s); err != nil {
		return err
	}
	if config.GeminiClient != nil {
		defer config.GeminiClient.Close()
	}

	go handlers.GlobalHub.Run(ctx)
	go func() {
		if err := config.Store.Watch(ctx, handlers.StoreChanged); err != nil {
			slog.Error("Store change feed stopped", "error", err)
		}
	}()

	if s.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              s.HTTPAddr,
		Handler:           routes.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", s.HTTPAddr, "store", s.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
