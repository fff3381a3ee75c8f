package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/handler"
	"github.com/xenking/storefront/internal/storage/postgres"
	"github.com/xenking/storefront/internal/store"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("catalog", cfg.CatalogURL),
	)

	client, err := catalog.New(cfg.CatalogURL, catalog.WithTimeout(cfg.CatalogTimeout))
	if err != nil {
		return errors.Wrap(err, "create catalog client")
	}

	products := store.NewProducts(client)
	favorites := store.NewFavorites()

	// Optional favorites persistence: load at startup, save on change. The
	// stores themselves stay storage-free.
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		repo := postgres.NewFavoritesRepository(pool)
		saved, err := repo.List(ctx)
		if err != nil {
			return errors.Wrap(err, "load favorites")
		}
		favorites.Replace(saved)
		// Register the save hook only after the initial load so rehydration
		// does not immediately write back what was just read.
		favorites.SetOnChange(func(snapshot []product.Product) {
			go func() {
				saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := repo.Replace(saveCtx, snapshot); err != nil {
					lg.Error("Persist favorites", zap.Error(err))
				}
			}()
		})
		lg.Info("Favorites persistence enabled", zap.Int("loaded", len(saved)))
	}

	// Health check service. The catalog probe keeps readiness honest: a
	// storefront that cannot reach its catalog has nothing to serve.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog", 5*time.Second, func(ctx context.Context) error {
		_, err := client.List(ctx, product.ListParams{Limit: 1})
		return err
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)

	// Warm the store so the first render is served from state, not a cold
	// fetch. Failures are logged, not fatal: the store records them and the
	// UI offers retry.
	warmup, warmupCtx := errgroup.WithContext(ctx)
	warmup.Go(func() error {
		return products.FetchPage(warmupCtx, product.ListParams{Limit: cfg.PageLimit})
	})
	warmup.Go(func() error {
		_, err := client.Categories(warmupCtx)
		return err
	})
	if err := warmup.Wait(); err != nil {
		lg.Warn("Warmup fetch failed", zap.Error(err))
	}
	healthSvc.SetReady(true)

	h := handler.New(handler.Config{
		PageLimit:    cfg.PageLimit,
		DemoUsername: cfg.DemoUsername,
		DemoPassword: cfg.DemoPassword,
	}, products, favorites, client)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	wrapped := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		// Handlers block on catalog calls bounded by CatalogTimeout; leave
		// headroom above it.
		WriteTimeout:   cfg.CatalogTimeout + 5*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Addr:           cfg.Addr,
		Handler: otelhttp.NewHandler(wrapped, "storefront",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
