package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"todo-server/internal/cache"
	"todo-server/internal/config"
	"todo-server/internal/controller"
	"todo-server/internal/database"
	"todo-server/internal/queue"
	"todo-server/internal/repository"
	"todo-server/internal/routes"
	"todo-server/internal/worker"
	"todo-server/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(ctx, "Config load failed", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Database not available; exiting", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.InitSchema(ctx, db); err != nil {
		logger.Error(ctx, "Schema initialization failed", "error", err)
		os.Exit(1)
	}

	listCache := cache.New(ctx, cfg)
	defer listCache.Close()

	queue.EnsureTopic(ctx, cfg)
	publisher := queue.NewPublisher(ctx, cfg)
	defer publisher.Close()

	lists := controller.NewLists(listCache)
	handlers := routes.Handlers{
		Users:  controller.NewUserController(repository.NewUserRepository(db), lists, publisher),
		Todos:  controller.NewTodoController(repository.NewTodoRepository(db), lists, publisher),
		Health: controller.NewHealthController(db, listCache),
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(handlers, cfg.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Consumes change events and invalidates the list cache.
	g.Go(func() error {
		return worker.Run(gctx, cfg, listCache)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Server error", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped")
}
