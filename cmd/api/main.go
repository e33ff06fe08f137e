package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dunder-mifflin/bookmarks-api/internal/config"
	"github.com/dunder-mifflin/bookmarks-api/internal/database"
	"github.com/dunder-mifflin/bookmarks-api/internal/handler"
	"github.com/dunder-mifflin/bookmarks-api/internal/logger"
	"github.com/dunder-mifflin/bookmarks-api/internal/middleware"
	"github.com/dunder-mifflin/bookmarks-api/internal/repository"
	"github.com/dunder-mifflin/bookmarks-api/internal/router"
	"github.com/dunder-mifflin/bookmarks-api/internal/server"
	"github.com/dunder-mifflin/bookmarks-api/internal/service"
)

// shutdownTimeout bounds how long inflight requests may drain on SIGTERM.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Load is fatal on bad config, so this path is unreachable in
		// practice; it exists so the signature stays honest.
		os.Exit(1)
	}

	loggerService, err := logger.NewLoggerService(cfg)
	if err != nil {
		os.Exit(1)
	}

	log := logger.New(cfg, loggerService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	s, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(s)

	services, err := service.NewService(s, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	handlers := handler.NewHandlers(s, services)
	middlewares := middleware.NewMiddlewares(s)

	e := router.New(s, handlers, middlewares)
	s.SetupHTTPServer(e)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down cleanly")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
