// Package main wires the HTTP server for the raffle storefront.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"raffle-storefront/internal/transport/http/server/handlers-fiber"
	"raffle-storefront/internal/usecase"
	"raffle-storefront/internal/usecase/domain"

	"raffle-storefront/config"
	"raffle-storefront/internal/api"
	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/gateway/backend"
	"raffle-storefront/internal/gateway/drive"
	"raffle-storefront/internal/prefetch"
	"raffle-storefront/internal/repository"
	"raffle-storefront/internal/transport/http/middleware"
	"raffle-storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	clk := clock.NewSystem()

	be := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Retries: cfg.Backend.Retries,
	}, log.Named("backend"))

	dl := drive.New(drive.Config{
		ClientID:     cfg.Drive.ClientID,
		ClientSecret: cfg.Drive.ClientSecret,
		RefreshToken: cfg.Drive.RefreshToken,
		TokenURL:     cfg.Drive.TokenURL,
		FilesURL:     cfg.Drive.FilesURL,
		ExpiryMargin: cfg.Drive.ExpiryMargin,
		Timeout:      cfg.Drive.Timeout,
		MaxBytes:     cfg.Drive.MaxBytes,
	}, log.Named("drive"))

	cache, err := repository.NewMediaCache(cfg.Media.CacheBackend, log, cfg, clk)
	if err != nil {
		log.Errorw("media cache initialization error", "error", err)
		return
	}
	if err := cache.OnStart(ctx); err != nil {
		log.Errorw("media cache start error", "backend", cfg.Media.CacheBackend, "error", err)
		return
	}
	defer func() {
		_ = cache.OnStop(context.Background())
	}()

	sessions, err := repository.NewSessionStore(ctx, cfg.Checkout.Store, log, cfg)
	if err != nil {
		log.Errorw("session store initialization error", "error", err)
		return
	}
	if err := sessions.OnStart(ctx); err != nil {
		log.Errorw("session store start error", "store", cfg.Checkout.Store, "error", err)
		return
	}
	defer func() {
		_ = sessions.OnStop(context.Background())
	}()

	media := prefetch.New(cache, dl, log.Named("prefetch"), cfg.Media.BatchSize)

	uc := usecase.New(log, ctx, be, media, sessions, clk, domain.Options{
		Timeout:         cfg.HTTP.RequestTimeout,
		SessionTTL:      cfg.Checkout.SessionTTL,
		PurgeInterval:   cfg.Checkout.PurgeInterval,
		RefreshInterval: cfg.Raffle.RefreshInterval,
		WatchIdle:       cfg.Raffle.IdleTTL,
	})
	go uc.WatchRaffles(ctx)
	go uc.CleanupSessions(ctx)

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
		BodyLimit:    cfg.HTTP.BodyLimit,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.CORS(cfg.HTTP.AllowedOrigins()))
	serv.Use(middleware.RequestLogger(log.Named("http")))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h := handlers_fiber.NewHandler(log.Named("handler"), uc)
	api.RegisterHandlers(serv, h)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()
	log.Infow("storefront started", "addr", cfg.ServerAddr(), "backend", cfg.Backend.BaseURL,
		"media_cache", cfg.Media.CacheBackend, "checkout_store", cfg.Checkout.Store)

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}
