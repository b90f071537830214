package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	cloudstorage "cloud.google.com/go/storage"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/handlers"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/auth"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/cache"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/config"
	pfirestore "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/firestore"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/idempotency"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/jobs"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/observability"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/secrets"
	platformstorage "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/storage"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
	firestoreRepo "github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories/firestore"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/services"
)

const (
	idempotencyTTL  = 24 * time.Hour
	orderRateLimit  = 10
	orderRateWindow = time.Minute
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	lookup, err := config.Lookup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read environment: %v\n", err)
		os.Exit(1)
	}
	env := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	baseLogger, err := observability.NewLogger(env("LOG_LEVEL"), env("API_SERVICE_NAME"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("api")

	fetcher := newSecretFetcher(ctx, logger, env)
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx, config.WithSecretResolver(fetcher))
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	buildInfo := services.BuildInfo{Version: buildVersion(env), StartedAt: startedAt}
	serviceLog := func(name string) func(context.Context, string, map[string]any) {
		return observability.ServiceLogger(logger.Named(name))
	}

	var firestoreOpts []pfirestore.ProviderOption
	if cfg.Firebase.CredentialsFile != "" {
		firestoreOpts = append(firestoreOpts, pfirestore.WithClientOptions(option.WithCredentialsFile(cfg.Firebase.CredentialsFile)))
	}
	firestoreProvider := pfirestore.NewProvider(cfg.Firestore, firestoreOpts...)
	if _, err := firestoreProvider.Client(ctx); err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		if err := firestoreProvider.Close(); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	storageClient, err := cloudstorage.NewClient(ctx)
	if err != nil {
		logger.Fatal("failed to initialise storage client", zap.Error(err))
	}
	defer func() {
		if err := storageClient.Close(); err != nil {
			logger.Warn("storage close error", zap.Error(err))
		}
	}()
	imageUploader, err := platformstorage.NewUploader(storageClient, cfg.Storage.ImagesBucket, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to initialise image uploader", zap.Error(err))
	}

	var orderEvents services.OrderEventPublisher
	if topicName := strings.TrimSpace(cfg.PubSub.OrderEventsTopic); topicName != "" {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			logger.Fatal("failed to initialise pubsub client", zap.Error(err))
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logger.Warn("pubsub close error", zap.Error(err))
			}
		}()
		topic := pubsubClient.Topic(topicName)
		defer topic.Stop()
		publisher, err := jobs.NewPubSubOrderEventPublisher(topic)
		if err != nil {
			logger.Fatal("failed to initialise order event publisher", zap.Error(err))
		}
		orderEvents = publisher
	} else {
		logger.Info("order events disabled: no pubsub topic configured")
	}

	redisClient, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable; caching and idempotency fall back to process memory", zap.Error(err))
	}
	var (
		listingCache     services.ListingCache
		snapshotCache    services.SnapshotCache
		jsonCache        *cache.JSONCache
		idempotencyStore idempotency.Store = idempotency.NewMemoryStore()
	)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close error", zap.Error(err))
			}
		}()
		jsonCache = cache.NewJSONCache(redisClient)
		listingCache = jsonCache
		snapshotCache = jsonCache
		idempotencyStore = idempotency.NewRedisStore(redisClient)
	}

	firebaseVerifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase, 0)
	if err != nil {
		logger.Fatal("failed to initialise firebase verifier", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(firebaseVerifier)

	customerRepo, err := firestoreRepo.NewCustomerRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise customer repository", zap.Error(err))
	}
	fabricRepo, err := firestoreRepo.NewFabricRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise fabric repository", zap.Error(err))
	}
	productRepo, err := firestoreRepo.NewProductRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise product repository", zap.Error(err))
	}
	fabricOrderRepo, err := firestoreRepo.NewFabricOrderRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise fabric order repository", zap.Error(err))
	}
	productOrderRepo, err := firestoreRepo.NewProductOrderRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise product order repository", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Fabrics:  fabricRepo,
		Products: productRepo,
		Cache:    listingCache,
		CacheTTL: cfg.Redis.CatalogTTL,
		Clock:    time.Now,
		Logger:   serviceLog("catalog"),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}
	customerService, err := services.NewCustomerService(services.CustomerServiceDeps{
		Customers: customerRepo,
		Clock:     time.Now,
		Logger:    serviceLog("customers"),
	})
	if err != nil {
		logger.Fatal("failed to initialise customer service", zap.Error(err))
	}
	fabricOrderService, err := services.NewFabricOrderService(services.FabricOrderServiceDeps{
		Orders:       fabricOrderRepo,
		Fabrics:      fabricRepo,
		Images:       imageUploader,
		ImagePaths:   platformstorage.NewPathBuilder(cfg.Storage.ImagePrefix),
		Events:       orderEvents,
		Metrics:      metrics,
		Clock:        time.Now,
		OrderNumbers: services.RandomOrderNumber,
		Logger:       serviceLog("fabric_orders"),
	})
	if err != nil {
		logger.Fatal("failed to initialise fabric order service", zap.Error(err))
	}
	productOrderService, err := services.NewProductOrderService(services.ProductOrderServiceDeps{
		Orders:       productOrderRepo,
		Events:       orderEvents,
		Metrics:      metrics,
		Clock:        time.Now,
		OrderNumbers: services.RandomOrderNumber,
		Logger:       serviceLog("product_orders"),
	})
	if err != nil {
		logger.Fatal("failed to initialise product order service", zap.Error(err))
	}
	statsService, err := services.NewStatsService(services.StatsServiceDeps{
		FabricOrders:  fabricOrderRepo,
		ProductOrders: productOrderRepo,
		Cache:         snapshotCache,
		SnapshotTTL:   cfg.Redis.StatsTTL,
		Clock:         time.Now,
		Logger:        serviceLog("stats"),
	})
	if err != nil {
		logger.Fatal("failed to initialise stats service", zap.Error(err))
	}

	systemService, err := newSystemService(firestoreProvider, jsonCache, buildInfo)
	if err != nil {
		logger.Warn("health: system service init failed", zap.Error(err))
	}

	catalogHandlers := handlers.NewCatalogHandlers(catalogService)
	meHandlers := handlers.NewMeHandlers(authenticator, customerService, fabricOrderService, productOrderService)
	orderHandlers := handlers.NewOrderHandlers(authenticator, fabricOrderService, productOrderService,
		handlers.WithOrderIdempotency(idempotency.Middleware(idempotencyStore, idempotencyTTL, time.Now, idempotency.WithMaxBodyBytes(handlers.MaxOrderBodySize))),
		handlers.WithOrderRateLimit(orderRateLimit, orderRateWindow, time.Now),
	)
	adminOrderHandlers := handlers.NewAdminOrderHandlers(authenticator, fabricOrderService, productOrderService, statsService)
	adminCatalogHandlers := handlers.NewAdminCatalogHandlers(authenticator, catalogService)
	internalHandlers := handlers.NewInternalHandlers(statsService)
	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfo),
		handlers.WithHealthSystemService(systemService),
	)

	projectID := traceProjectID(cfg)
	middlewares := []func(http.Handler) http.Handler{
		cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins(cfg.Server.AllowedOrigins),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", "If-None-Match"},
			ExposedHeaders:   []string{"ETag", "Retry-After", "X-Idempotent-Replay"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
		metrics.Middleware,
	}

	opts := []handlers.Option{
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithMetricsHandler(metrics.Handler()),
		handlers.WithCatalogRoutes(catalogHandlers.Routes),
		handlers.WithMeRoutes(meHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithAdminRoutes(adminOrderHandlers.Routes, adminCatalogHandlers.Routes),
		handlers.WithInternalRoutes(internalHandlers.Routes),
	}
	if oidc := buildOIDCMiddleware(logger.Named("auth"), cfg); oidc != nil {
		opts = append(opts, handlers.WithInternalMiddlewares(oidc))
	} else {
		logger.Warn("auth: OIDC JWKS URL not configured; internal routes will reject requests")
	}

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("silai sathi api listening", zap.String("version", buildInfo.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildVersion(env func(string) string) string {
	if version := env("API_BUILD_VERSION"); version != "" {
		return version
	}
	return "dev"
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env func(string) string) *secrets.Fetcher {
	project := env("API_SECRET_DEFAULT_PROJECT_ID")
	if project == "" {
		project = env("API_FIREBASE_PROJECT_ID")
	}
	opts := []secrets.Option{secrets.WithLogger(logger.Named("secrets"))}
	if path, ok := os.LookupEnv("API_SECRET_FALLBACK_FILE"); ok {
		opts = append(opts, secrets.WithFallbackFile(path))
	}
	return secrets.NewFetcher(ctx, project, opts...)
}

// newSystemService probes Firestore and, when configured, Redis. A nil cache skips the Redis check.
func newSystemService(provider *pfirestore.Provider, jsonCache *cache.JSONCache, build services.BuildInfo) (services.SystemService, error) {
	checks := make([]repositories.DependencyCheck, 0, 2)
	if provider != nil {
		checks = append(checks, repositories.DependencyCheck{
			Name:    "firestore",
			Timeout: 1500 * time.Millisecond,
			Check:   provider.Ping,
		})
	}
	if jsonCache != nil {
		checks = append(checks, repositories.DependencyCheck{
			Name:    "redis",
			Timeout: time.Second,
			Check:   jsonCache.Ping,
		})
	}
	repo, err := repositories.NewDependencyHealthRepository(checks, time.Now)
	if err != nil {
		return nil, err
	}
	return services.NewSystemService(services.SystemServiceDeps{
		HealthRepository: repo,
		Clock:            time.Now,
		Build:            build,
	})
}

func buildOIDCMiddleware(logger *zap.Logger, cfg config.Config) func(http.Handler) http.Handler {
	if strings.TrimSpace(cfg.Security.OIDC.JWKSURL) == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	audience := strings.TrimSpace(cfg.Security.OIDC.Audience)
	if audience == "" {
		logger.Warn("auth: OIDC audience not configured; internal routes will reject requests")
	}

	adapter := observability.NewPrintfAdapter(logger)
	jwks := auth.NewJWKSCache(cfg.Security.OIDC.JWKSURL, &http.Client{Timeout: 5 * time.Second}, time.Now)
	validator := auth.NewOIDCValidator(jwks, adapter)
	return validator.RequireOIDC(audience, cfg.Security.OIDC.Issuers)
}

func traceProjectID(cfg config.Config) string {
	if id := strings.TrimSpace(cfg.Firebase.ProjectID); id != "" {
		return id
	}
	return strings.TrimSpace(cfg.Firestore.ProjectID)
}

func allowedOrigins(configured []string) []string {
	if len(configured) == 0 {
		return []string{"*"}
	}
	return configured
}
