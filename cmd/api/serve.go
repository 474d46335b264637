package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"remindbridge/internal/interfaces/api/handler"
	"remindbridge/internal/interfaces/api/router"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the periodic reminder trigger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func gracefulShutdown(apiServer *http.Server, app *application, done chan<- struct{}) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	app.log.Info("Shutting down gracefully, press Ctrl+C again to force")

	// The server gets 5 seconds to finish in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		app.log.Error("Server forced to shutdown", err)
	}

	app.log.Info("Stopping scheduler and closing database...")
	app.close()

	close(done)
}

func runServe() error {
	app, err := newApplication()
	if err != nil {
		return err
	}

	if err := app.schedulerSvc.Start(); err != nil {
		app.close()
		return err
	}

	// --- API Handlers ---
	routerCfg := &router.Config{
		ReminderHandler: handler.NewReminderHandler(app.reminderSvc, app.log),
		ActionHandler:   handler.NewActionHandler(app.deliverySvc, app.log),
		CacheHandler:    handler.NewCacheHandler(app.cacheSvc, app.log),
		CacheStore:      app.cacheStore,
		CacheTTL:        app.cfg.CacheDefaultTTL,
		CacheAPIKey:     app.cfg.CacheAPIKey,
		Logger:          app.log,
	}
	if app.cfg.CacheAPIKey == "" {
		app.log.Warn("CACHE_API_KEY not set, every cache route will answer 401")
	}
	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         ":" + app.cfg.Port,
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan struct{})
	go gracefulShutdown(apiServer, app, done)

	app.log.Info(fmt.Sprintf("Server starting on port %s", app.cfg.Port))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.log.Error("HTTP server ListenAndServe error", err)
		app.close()
		return fmt.Errorf("http server error: %w", err)
	}

	<-done
	app.log.Info("Graceful shutdown complete.")
	return nil
}
