package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	academyapp "github.com/glowstudio/backend/internal/application/academy"
	bookingapp "github.com/glowstudio/backend/internal/application/booking"
	cartapp "github.com/glowstudio/backend/internal/application/cart"
	catalogapp "github.com/glowstudio/backend/internal/application/catalog"
	dashboardapp "github.com/glowstudio/backend/internal/application/dashboard"
	galleryapp "github.com/glowstudio/backend/internal/application/gallery"
	identityapp "github.com/glowstudio/backend/internal/application/identity"
	orderapp "github.com/glowstudio/backend/internal/application/order"
	settingapp "github.com/glowstudio/backend/internal/application/setting"
	testimonialapp "github.com/glowstudio/backend/internal/application/testimonial"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/auth"
	"github.com/glowstudio/backend/internal/infrastructure/cache"
	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/glowstudio/backend/internal/infrastructure/logger"
	"github.com/glowstudio/backend/internal/infrastructure/persistence"
	"github.com/glowstudio/backend/internal/infrastructure/printing"
	"github.com/glowstudio/backend/internal/infrastructure/storage"
	"github.com/glowstudio/backend/internal/infrastructure/telemetry"
	"github.com/glowstudio/backend/internal/interfaces/http/handler"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
	"github.com/glowstudio/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/glowstudio/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Glow Studio API
//	@version		1.0
//	@description	Backend of the Glow Studio makeup studio: shop, bookings, academy, gallery and testimonials.

//	@contact.name	Glow Studio
//	@contact.email	hello@glowstudio.example

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const (
	shutdownTimeout     = 30 * time.Second
	idempotencyPrefix   = "glow:checkout:"
	uploadBodyAllowance = 1 << 20
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	// Rebuild the logger once the log exporter exists so entries reach the collector too
	if providers.Logs.IsEnabled() {
		if exported, err := logger.New(logCfg, providers.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level))); err == nil {
			log = exported
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Glow Studio backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := tracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	healthChecks := []handler.HealthCheck{{Name: "database", Pinger: db}}

	// Redis backs the blacklist, idempotency keys and settings cache when enabled
	stores := newStores(cfg, log)
	defer stores.Close()
	if stores.redis != nil {
		client := stores.redis
		healthChecks = append(healthChecks, handler.HealthCheck{
			Name:   "redis",
			Pinger: handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
		})
	}

	files, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize media storage", zap.String("provider", cfg.Storage.Provider), zap.Error(err))
	}
	log.Info("Media storage ready", zap.String("provider", files.Name()))

	var renderer printing.PDFRenderer
	if cfg.Printing.Enabled {
		chrome := printing.NewChromedpRenderer(printing.ChromedpConfig{
			RemoteURL: cfg.Printing.RemoteURL,
			NoSandbox: cfg.Printing.NoSandbox,
			Timeout:   cfg.Printing.Timeout,
			Logger:    log,
		})
		defer func() {
			if err := chrome.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		renderer = chrome
	}

	// Initialize repositories
	tx := persistence.NewGormTransactionScope(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	packageRepo := persistence.NewGormServicePackageRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	classRepo := persistence.NewGormMakeupClassRepository(db.DB)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db.DB)
	galleryRepo := persistence.NewGormGalleryRepository(db.DB)
	testimonialRepo := persistence.NewGormTestimonialRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, stores.blacklist, log)
	userService := identityapp.NewUserService(userRepo, jwtService, stores.blacklist, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	settingService := settingapp.NewSettingService(settingRepo, stores.settings, log)
	orderService := orderapp.NewOrderService(orderapp.OrderServiceDeps{
		Tx:             tx,
		Orders:         orderRepo,
		Users:          userRepo,
		Settings:       settingService,
		Idempotency:    stores.idempotency,
		IdempotencyTTL: cfg.Checkout.IdempotencyTTL,
		Printer:        printing.NewInvoicePrinter(renderer),
		Logger:         log,
	})
	couponService := orderapp.NewCouponService(couponRepo, log)
	bookingService := bookingapp.NewBookingService(tx, packageRepo, bookingRepo, settingService, cfg.App.Location(), log)
	academyService := academyapp.NewAcademyService(tx, classRepo, enrollmentRepo, userRepo, log)
	galleryService := galleryapp.NewGalleryService(galleryRepo, files, cfg.Storage.MaxUploadSize, log)
	testimonialService := testimonialapp.NewTestimonialService(testimonialRepo, log)
	dashboardService := dashboardapp.NewDashboardService(orderRepo, productRepo, bookingRepo, classRepo, testimonialRepo)

	if providers.Meter.IsEnabled() {
		metrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:       providers.Meter.Meter("glowstudio.business"),
			Logger:      log,
			StatsSource: dashboardService,
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		orderService.SetBusinessMetrics(metrics)
		bookingService.SetBusinessMetrics(metrics)
		academyService.SetBusinessMetrics(metrics)
		galleryService.SetBusinessMetrics(metrics)
		metrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
		defer metrics.Stop()
	}

	bootstrapCtx, cancelBootstrap := context.WithTimeout(ctx, 10*time.Second)
	if err := userService.EnsureAdmin(bootstrapCtx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName); err != nil {
		log.Fatal("Failed to ensure bootstrap admin", zap.String("email", cfg.Bootstrap.AdminEmail), zap.Error(err))
	}
	cancelBootstrap()

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService),
		Users:        handler.NewUserHandler(userService),
		Catalog:      handler.NewCatalogHandler(categoryService, productService),
		Cart:         handler.NewCartHandler(cartService),
		Orders:       handler.NewOrderHandler(orderService),
		Coupons:      handler.NewCouponHandler(couponService),
		Bookings:     handler.NewBookingHandler(bookingService),
		Academy:      handler.NewAcademyHandler(academyService),
		Gallery:      handler.NewGalleryHandler(galleryService),
		Testimonials: handler.NewTestimonialHandler(testimonialService),
		Settings:     handler.NewSettingHandler(settingService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		System:       handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, cfg.App.Env, healthChecks...),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(providers.Meter)
	if err != nil {
		log.Fatal("Failed to initialize HTTP metrics", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.App.IsProduction()

	// Middleware order: request id first so every later layer can log it,
	// tracing before recovery so panics land on the span.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.Tracer.IsEnabled(),
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(httpMetrics)
	if providers.Profiler.IsEnabled() {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.Secure(securityCfg))
	engine.Use(middleware.CORS(corsCfg))
	engine.Use(middleware.BodyLimit(bodyLimit(cfg)))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(ctx, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", handlers.System.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
	if cfg.Storage.Provider == config.StorageLocal {
		engine.Static(cfg.Storage.Local.PublicPath, cfg.Storage.Local.BaseDir)
	}

	jwtCfg := middleware.JWTConfig{
		JWTService: jwtService,
		Blacklist:  stores.blacklist,
		Logger:     log,
	}
	guards := router.Guards{
		Auth:         middleware.JWTAuth(jwtCfg),
		OptionalAuth: middleware.OptionalJWTAuth(jwtCfg),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(ctx, cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		guards.AuthRateLimit = middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return c.ClientIP() + " " + c.FullPath()
		})
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	for _, group := range router.StudioRoutes(handlers, guards) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// bodyLimit leaves room for a full gallery upload plus its form fields
func bodyLimit(cfg *config.Config) int64 {
	limit := cfg.HTTP.MaxBodySize
	if upload := cfg.Storage.MaxUploadSize + uploadBodyAllowance; upload > limit {
		limit = upload
	}
	return limit
}

// stores holds the Redis-or-memory implementations of the shared state
type stores struct {
	redis       *redis.Client
	blacklist   auth.TokenBlacklist
	idempotency shared.IdempotencyStore
	settings    cache.SettingsCache
	closers     []func() error
}

// newStores connects to Redis when enabled. Without Redis, or when it is
// unreachable outside production, each store falls back to process memory.
func newStores(cfg *config.Config, log *zap.Logger) *stores {
	settingsOpts := []cache.SettingsCacheOption{cache.WithCacheLogger(log)}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		switch {
		case err == nil:
			log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
			return &stores{
				redis:       client,
				blacklist:   auth.NewRedisTokenBlacklist(client),
				idempotency: cache.NewRedisIdempotencyStore(client, idempotencyPrefix),
				settings:    cache.NewRedisSettingsCache(client, settingsOpts...),
				closers:     []func() error{client.Close},
			}
		case cfg.App.IsProduction():
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		default:
			log.Warn("Redis unavailable, using in-memory stores", zap.Error(err))
		}
	}

	idem := cache.NewInMemoryIdempotencyStore()
	return &stores{
		blacklist:   auth.NewInMemoryTokenBlacklist(),
		idempotency: idem,
		settings:    cache.NewInMemorySettingsCache(settingsOpts...),
		closers:     []func() error{idem.Close},
	}
}

// Close releases the Redis connection or the in-memory sweepers
func (s *stores) Close() {
	for _, closeFn := range s.closers {
		_ = closeFn()
	}
}
