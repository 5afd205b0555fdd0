package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/cart"
	"amber-storefront/internal/config"
	"amber-storefront/internal/geo"
	"amber-storefront/internal/logger"
	"amber-storefront/internal/server"
	"amber-storefront/internal/service"
	"amber-storefront/internal/session"
	"amber-storefront/internal/storage"

	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.Open(startCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open device storage", zap.Error(err))
	}
	res := server.Resources{
		Health:  store.Health,
		Closers: []func() error{store.Close},
	}

	if cfg.Redis.Enabled() {
		limiter := storage.NewRedisClient(cfg.Redis)
		if err := limiter.Ping(startCtx).Err(); err != nil {
			log.Warn("Redis unreachable, rate limiting disabled", zap.Error(err))
			limiter.Close()
		} else {
			res.Limiter = limiter
			res.Closers = append(res.Closers, limiter.Close)
		}
	}

	sentinel, err := session.NewSentinel(cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		log.Fatal("Failed to set up admin credentials", zap.Error(err))
	}

	svc := buildServices(cfg, log, store.Store, sentinel)
	if state := svc.Auth.Restore(startCtx); state.IsAuthenticated {
		log.Info("Resuming saved session", zap.String("user_id", state.User.ID))
	}

	srv := server.NewServer(cfg, log, svc, res)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}

func buildServices(cfg *config.Config, log *zap.Logger, kv storage.KeyValueStore, sentinel *session.Sentinel) server.Services {
	api := backend.New(cfg.Backend, log.Named("backend"))
	sess := session.NewStore(kv, log.Named("session"))

	catalog := service.NewCatalogService(api, log)
	cartSvc := service.NewCartService(cart.NewStore(), catalog, log)

	return server.Services{
		Auth:     service.NewAuthService(api, sess, sentinel, log),
		Catalog:  catalog,
		Cart:     cartSvc,
		Checkout: service.NewCheckoutService(api, sess, cartSvc, cfg.Business, log),
		Orders:   service.NewOrderService(api, sess, log),
		Products: service.NewAdminProductService(api, sess, catalog, log),
		Reports:  service.NewReportService(api, sess, log),
		Location: service.NewLocationService(geo.NewNominatim(cfg.Geocoder, log.Named("geo")), log),
	}
}
