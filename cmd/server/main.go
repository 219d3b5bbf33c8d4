package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/salehub/backend/docs"
	notificationapp "github.com/salehub/backend/internal/application/notification"
	"github.com/salehub/backend/internal/application/webhook"
	"github.com/salehub/backend/internal/domain/notification"
	"github.com/salehub/backend/internal/domain/sale"
	"github.com/salehub/backend/internal/domain/shared"
	"github.com/salehub/backend/internal/infrastructure/cache"
	"github.com/salehub/backend/internal/infrastructure/config"
	"github.com/salehub/backend/internal/infrastructure/gateway"
	"github.com/salehub/backend/internal/infrastructure/logger"
	"github.com/salehub/backend/internal/infrastructure/persistence"
	"github.com/salehub/backend/internal/infrastructure/push"
	"github.com/salehub/backend/internal/infrastructure/storage"
	"github.com/salehub/backend/internal/infrastructure/telemetry"
	"github.com/salehub/backend/internal/interfaces/http/handler"
	"github.com/salehub/backend/internal/interfaces/http/middleware"
	"github.com/salehub/backend/internal/interfaces/http/router"
)

//	@title			Salehub Webhook API
//	@version		1.0
//	@description	Receives payment gateway webhooks and records tenant sales.

//	@contact.name	Salehub Support
//	@contact.url	https://github.com/salehub/backend

//	@BasePath	/

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting webhook service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	webhookMetrics, err := telemetry.NewWebhookMetrics(providers.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to create webhook metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.Open(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	webhookLogRepo := persistence.NewGormWebhookLogRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	deviceTokenRepo := persistence.NewGormDeviceTokenRepository(db.DB)

	locker, redisClient := buildLocker(ctx, cfg, log)
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}
	archiver := buildArchiver(ctx, cfg, log)

	registry := gateway.DefaultRegistry()
	dispatcher := notificationapp.NewDispatcher(notificationapp.DispatcherConfig{
		Notifications: notificationRepo,
		Tokens:        deviceTokenRepo,
		Pusher:        buildPusher(ctx, cfg, log),
		Link:          cfg.Push.Link,
		Icon:          cfg.Push.Icon,
		Logger:        log,
	})
	processor := webhook.NewProcessor(webhook.ProcessorConfig{
		Adapters:   registry,
		Tenants:    webhook.NewTenantResolver(tenantRepo, log),
		Sales:      saleRepo,
		Logs:       webhookLogRepo,
		Dispatcher: dispatcher,
		Locker:     locker,
		Archiver:   archiver,
		Metrics:    webhookMetrics,
		Logger:     log,
	})

	webhookHandler := handler.NewWebhookHandler(registry, processor, log)
	gatewayHandler := handler.NewGatewayHandler(registry)
	healthHandler := handler.NewHealthHandler(db, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request id must exist before logging and tracing
	// read it, and recovery must wrap everything after it.
	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.Enabled = cfg.Telemetry.Enabled
	tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(tracingCfg))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	engine.GET("/health", healthHandler.Check)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	webhookRoutes := router.NewDomainGroup("/webhook").
		Use(middleware.BodyLimit(cfg.Webhook.MaxPayloadBytes))
	if cfg.Webhook.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.Webhook.RateLimitRequests, cfg.Webhook.RateLimitWindow)
		defer limiter.Stop()
		webhookRoutes.Use(middleware.RateLimitByKey(limiter, middleware.WebhookKey))
		log.Info("Webhook rate limiting enabled",
			zap.Int("requests", cfg.Webhook.RateLimitRequests),
			zap.Duration("window", cfg.Webhook.RateLimitWindow),
		)
	}
	webhookRoutes.POST("/:gateway", webhookHandler.Receive)
	webhookRoutes.POST("/:gateway/:secret", webhookHandler.Receive)

	gatewayRoutes := router.NewDomainGroup("/gateways").
		GET("", gatewayHandler.List)

	routes := router.NewRouter(engine, router.WithAPIVersion("v1")).
		RegisterRoot(webhookRoutes).
		Register(gatewayRoutes).
		Setup()
	log.Info("Routes registered", zap.Int("count", routes), zap.String("webhook_prefix", webhookRoutes.Prefix()))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.Strings("gateways", gatewaySlugs(registry)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	_ = providers.Shutdown(shutdownCtx)

	log.Info("Server exited gracefully")
}

// buildLocker returns nil when per-key locking is disabled. Redis is used when
// configured, otherwise locks only serialize deliveries within this process.
func buildLocker(ctx context.Context, cfg *config.Config, log *zap.Logger) (shared.KeyLocker, *redis.Client) {
	if !cfg.Webhook.LockEnabled {
		return nil, nil
	}
	lockCfg := shared.LockConfig{TTL: cfg.Webhook.LockTTL, Wait: cfg.Webhook.LockWait}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			log.Info("Using Redis key locker", zap.String("addr", cfg.Redis.Addr()))
			return cache.NewRedisKeyLocker(client, "", lockCfg), client
		}
		log.Warn("Redis unavailable, falling back to in-process key locker", zap.Error(err))
	}
	return cache.NewInMemoryKeyLocker(cfg.Webhook.LockWait), nil
}

func buildArchiver(ctx context.Context, cfg *config.Config, log *zap.Logger) sale.PayloadArchiver {
	if !cfg.Archive.Enabled {
		return nil
	}
	archive, err := storage.NewS3PayloadArchive(ctx, &cfg.Archive, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize payload archive", zap.Error(err))
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare payload archive bucket", zap.Error(err))
	}
	log.Info("Payload archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	return archive
}

func buildPusher(ctx context.Context, cfg *config.Config, log *zap.Logger) notification.PushSender {
	if !cfg.Push.Enabled {
		return push.NewLogSender(log)
	}
	sender, err := push.NewFCMSender(ctx, &cfg.Push, log)
	if err != nil {
		log.Fatal("Failed to initialize push sender", zap.Error(err))
	}
	return sender
}

func gatewaySlugs(r *gateway.Registry) []string {
	slugs := r.Slugs()
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		out = append(out, s.String())
	}
	return out
}
