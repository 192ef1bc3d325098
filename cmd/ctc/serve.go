package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentdesk/ctc-calculator/internal/api"
	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/store"
	"github.com/talentdesk/ctc-calculator/internal/store/memory"
	"github.com/talentdesk/ctc-calculator/internal/store/sqlite"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal
const shutdownTimeout = 30 * time.Second

type serveOptions struct {
	addr    string
	dbPath  string
	origins string
}

func serveCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calculation and offer HTTP service",
		Long: `Starts the HTTP service.

ENVIRONMENT:
  CTC_ADDR          listen address (default :8080)
  CTC_DB            SQLite database path, ":memory:" for a throwaway
                    database or "memory" for the map-backed store
  CTC_CORS_ORIGINS  comma-separated allowed origins
  CTC_LOG_LEVEL     log level`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts, global)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", envOr("CTC_ADDR", ":8080"), "HTTP listen address")
	cmd.Flags().StringVar(&opts.dbPath, "db", envOr("CTC_DB", "ctc.db"), "SQLite database path")
	cmd.Flags().StringVar(&opts.origins, "cors-origins", envOr("CTC_CORS_ORIGINS", ""), "Comma-separated allowed CORS origins")
	return cmd
}

func openStore(dbPath string) (store.Store, error) {
	if dbPath == "memory" {
		return memory.New(), nil
	}
	return sqlite.New(dbPath)
}

func runServer(ctx context.Context, opts *serveOptions, global *globalOptions) error {
	logger := newLogger(global.logLevel)

	st, err := openStore(opts.dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	engine := calculation.NewCompensationEngine()
	engine.SetLogger(calculation.NewSlogLogger(logger))

	handler := api.NewHandler(engine, st, api.NewMetrics(), logger)
	var origins []string
	for _, o := range strings.Split(opts.origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: origins})

	server := &http.Server{
		Addr:         opts.addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	server.RegisterOnShutdown(handler.CloseStreams)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", opts.addr, "db", opts.dbPath)
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

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
