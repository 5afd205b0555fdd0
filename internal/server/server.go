package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"amber-storefront/internal/config"
	custommiddleware "amber-storefront/internal/middleware"
	"amber-storefront/internal/service"
	"amber-storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services are the storefront operations exposed over HTTP
type Services struct {
	Auth     service.AuthService
	Catalog  service.CatalogService
	Cart     service.CartService
	Checkout service.CheckoutService
	Orders   service.OrderService
	Products service.AdminProductService
	Reports  service.ReportService
	Location service.LocationService
}

// Resources are the connections the server owns and closes on shutdown
type Resources struct {
	// Health reports the device store; nil means always up.
	Health func(ctx context.Context) map[string]string
	// Limiter backs the checkout and login rate limits; nil disables them.
	Limiter *redis.Client
	Closers []func() error
}

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	resources Resources
}

func NewServer(cfg *config.Config, logger *zap.Logger, svc Services, res Resources) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger.Named("http")))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))
	router.Use(custommiddleware.SessionMiddleware(svc.Auth))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		storage := map[string]string{"status": "up"}
		if res.Health != nil {
			storage = res.Health(r.Context())
		}

		status := http.StatusOK
		if storage["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
			"status":  storage["status"],
			"storage": storage,
		})
	})

	checkoutLimiter := rateLimiter(res.Limiter, cfg.RateLimit, "ratelimit:checkout", logger)
	loginLimiter := rateLimiter(res.Limiter, cfg.RateLimit, "ratelimit:login", logger)
	if res.Limiter == nil {
		logger.Info("Rate limiting disabled, no redis configured")
	}

	transport.NewCatalogHandler(svc.Catalog, logger.Named("catalog")).RegisterRoutes(router)
	transport.NewCartHandler(svc.Cart, logger.Named("cart")).RegisterRoutes(router)
	transport.NewAuthHandler(svc.Auth, logger.Named("auth")).RegisterRoutes(router, loginLimiter)
	transport.NewCheckoutHandler(svc.Checkout, logger.Named("checkout")).RegisterRoutes(router, checkoutLimiter)
	transport.NewOrderHandler(svc.Orders, logger.Named("orders")).RegisterRoutes(router)
	transport.NewAdminHandler(svc.Products, svc.Reports, logger.Named("admin")).RegisterRoutes(router)
	transport.NewDeviceHandler(svc.Location, logger.Named("device")).RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		resources: res,
	}

	return server
}

// rateLimiter returns a pass-through middleware when client is nil.
func rateLimiter(client *redis.Client, cfg config.RateLimitConfig, prefix string, logger *zap.Logger) func(http.Handler) http.Handler {
	if client == nil || cfg.Requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return custommiddleware.RateLimitMiddleware(client, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.Requests,
		Window:            cfg.Window,
		KeyPrefix:         prefix,
	}, logger.Named("ratelimit"))
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	for _, closeFn := range s.resources.Closers {
		if err := closeFn(); err != nil {
			s.logger.Error("Failed to close resource", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
