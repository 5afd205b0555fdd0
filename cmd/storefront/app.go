package main

import (
	"context"
	"fmt"
	"os"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/cart"
	"amber-storefront/internal/config"
	"amber-storefront/internal/geo"
	"amber-storefront/internal/logger"
	"amber-storefront/internal/service"
	"amber-storefront/internal/session"
	"amber-storefront/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	verbose bool
	json    bool
	storage string
}

// app is one CLI invocation: the restored session plus the services.
// The cart lives only for the invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	opts   *rootOptions
	store  *storage.Opened

	auth     service.AuthService
	catalog  service.CatalogService
	cart     service.CartService
	checkout service.CheckoutService
	orders   service.OrderService
	products service.AdminProductService
	reports  service.ReportService
	location service.LocationService
}

func newApp(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg := config.Load()
	log := logger.NewCLI(opts.verbose)

	// sessions must survive between invocations, so the CLI defaults to the
	// file store unless a driver is chosen explicitly
	if _, ok := os.LookupEnv("STORAGE_DRIVER"); !ok || cmd.Flags().Changed("storage") {
		cfg.Storage.Driver = opts.storage
	}

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open device storage: %w", err)
	}

	sentinel, err := session.NewSentinel(cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		store.Close()
		return nil, err
	}

	api := backend.New(cfg.Backend, log.Named("backend"))
	sess := session.NewStore(store.Store, log.Named("session"))
	catalog := service.NewCatalogService(api, log)
	cartSvc := service.NewCartService(cart.NewStore(), catalog, log)

	a := &app{
		cfg:      cfg,
		logger:   log,
		opts:     opts,
		store:    store,
		auth:     service.NewAuthService(api, sess, sentinel, log),
		catalog:  catalog,
		cart:     cartSvc,
		checkout: service.NewCheckoutService(api, sess, cartSvc, cfg.Business, log),
		orders:   service.NewOrderService(api, sess, log),
		products: service.NewAdminProductService(api, sess, catalog, log),
		reports:  service.NewReportService(api, sess, log),
		location: service.NewLocationService(geo.NewNominatim(cfg.Geocoder, log.Named("geo")), log),
	}
	a.auth.Restore(ctx)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close device storage", zap.Error(err))
	}
	a.logger.Sync()
}

// run wraps a command body with app setup and teardown.
func run(opts *rootOptions, body func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cmd, opts)
		if err != nil {
			return err
		}
		defer a.Close()
		return body(ctx, a, cmd, args)
	}
}
