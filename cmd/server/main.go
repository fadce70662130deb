package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"pocketblog/config"
	"pocketblog/controllers"
	"pocketblog/db"
	"pocketblog/logging"
	"pocketblog/routes"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code so deferred cleanup runs before os.Exit.
func realMain() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Printf("Error initializing logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.BearerToken == "" {
		logger.Warn("BEARER_TOKEN is not set, API is unauthenticated")
	}

	openCtx, cancelOpen := context.WithTimeout(ctx, 30*time.Second)
	kv, err := db.Open(openCtx, cfg.Store(), logger)
	cancelOpen()
	if err != nil {
		return err
	}
	store := db.NewPostStore(kv, logger.Named("store"))
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	screen := controllers.NewScreen(store, controllers.WithLogger(logger.Named("screen")))
	screen.Mount(ctx)

	handler, stopLimiter := routes.SetupRoutes(cfg, screen, logger.Named("http"))
	defer stopLimiter()

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    100 * time.Second,
		WriteTimeout:   100 * time.Second,
		MaxHeaderBytes: 7500,
		IdleTimeout:    120 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		closeScreen(screen, logger)
		return err
	}
	return serve(ctx, srv, ln, screen, logger)
}

// serve runs srv on ln until ctx ends or the listener fails. Queued saves are
// written before it returns on either path.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, screen *controllers.Screen, logger *zap.Logger) error {
	defer closeScreen(screen, logger)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	logger.Info("server started", zap.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped with error", zap.Error(err))
	}
	logger.Info("server exited gracefully")
	return nil
}

func closeScreen(screen *controllers.Screen, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := screen.Close(ctx); err != nil {
		logger.Error("pending saves were not written", zap.Error(err))
	}
}
