package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"socialnet/config"
	"socialnet/database"
	"socialnet/handlers"
	"socialnet/middleware"
	"socialnet/repository"
	"socialnet/routes"
)

func main() {
	config.LoadDotEnv()

	cfg := &config.Config{}
	app := &cli.App{
		Name:  "socialnet",
		Usage: "social network read/write API backed by MongoDB",
		Flags: config.Flags(cfg),
		Action: func(c *cli.Context) error {
			if err := cfg.Complete(c); err != nil {
				return err
			}
			return serve(c.Context, cfg)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("socialnet stopped")
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Disconnect(context.Background()); err != nil {
			logger.WithError(err).Warn("MongoDB disconnect failed")
		}
	}()

	if cfg.EnsureIndexes {
		if err := database.EnsureIndexes(ctx, store.DB, logger); err != nil {
			return errors.Wrap(err, "ensure indexes")
		}
		logger.Info("indexes ensured")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repo := repository.New(store.DB, logger.WithField("component", "repository"),
		repository.WithMetrics(repository.NewMetrics(registry)))
	h := handlers.New(repo, store, logger.WithField("component", "handlers"), cfg.RequestTimeout)

	gin.SetMode(cfg.GinMode)
	var limiter *middleware.IPRateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}
	router := routes.SetupRouter(h, routes.Options{
		Logger:      logger.WithField("component", "http"),
		Registry:    registry,
		CORSOrigins: cfg.CORSOrigins,
		JWTSecret:   cfg.JWTSecret,
		RateLimiter: limiter,
	})
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, write routes are unauthenticated")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	logger.Info("server stopped")
	return nil
}
