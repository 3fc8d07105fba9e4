package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
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
	"github.com/glowstudio/backend/internal/domain/identity"
	"github.com/glowstudio/backend/internal/infrastructure/auth"
	"github.com/glowstudio/backend/internal/infrastructure/cache"
	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/glowstudio/backend/internal/infrastructure/persistence"
	"github.com/glowstudio/backend/internal/infrastructure/printing"
	"github.com/glowstudio/backend/internal/infrastructure/storage"
	"github.com/glowstudio/backend/internal/interfaces/http/handler"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
	"github.com/glowstudio/backend/internal/interfaces/http/router"
	"github.com/glowstudio/backend/tests/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const testUploadLimit = 64 << 10

// studio is the whole API wired onto an in-memory database
type studio struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
	jwt    *auth.JWTService
	users  *persistence.GormUserRepository
	files  afero.Fs
}

func newStudio(t *testing.T, checks ...handler.HealthCheck) *studio {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db := testutil.NewSQLiteDB(t)
	log := zaptest.NewLogger(t)
	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-chars",
		RefreshSecret:          "handler-test-refresh-at-least-32-char",
		Issuer:                 "glow-studio-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idem.Close() })

	fs := afero.NewMemMapFs()
	files, err := storage.NewLocalProvider(fs, config.LocalStorageConfig{BaseDir: "/uploads", PublicPath: "/uploads"})
	require.NoError(t, err)

	tx := persistence.NewGormTransactionScope(db)
	users := persistence.NewGormUserRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	products := persistence.NewGormProductRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	bookings := persistence.NewGormBookingRepository(db)
	classes := persistence.NewGormMakeupClassRepository(db)
	testimonials := persistence.NewGormTestimonialRepository(db)

	settings := settingapp.NewSettingService(persistence.NewGormSettingRepository(db), cache.NewInMemorySettingsCache(), log)
	orderSvc := orderapp.NewOrderService(orderapp.OrderServiceDeps{
		Tx:          tx,
		Orders:      orders,
		Users:       users,
		Settings:    settings,
		Idempotency: idem,
		Printer:     printing.NewInvoicePrinter(nil),
		Logger:      log,
	})

	h := router.Handlers{
		Auth: handler.NewAuthHandler(
			identityapp.NewAuthService(users, jwtSvc, blacklist, log),
			identityapp.NewUserService(users, jwtSvc, blacklist, log),
		),
		Users: handler.NewUserHandler(identityapp.NewUserService(users, jwtSvc, blacklist, log)),
		Catalog: handler.NewCatalogHandler(
			catalogapp.NewCategoryService(categories),
			catalogapp.NewProductService(products, categories, log),
		),
		Cart:    handler.NewCartHandler(cartapp.NewCartService(persistence.NewGormCartRepository(db), products)),
		Orders:  handler.NewOrderHandler(orderSvc),
		Coupons: handler.NewCouponHandler(orderapp.NewCouponService(persistence.NewGormCouponRepository(db), log)),
		Bookings: handler.NewBookingHandler(bookingapp.NewBookingService(
			tx, persistence.NewGormServicePackageRepository(db), bookings, settings, time.UTC, log,
		)),
		Academy: handler.NewAcademyHandler(academyapp.NewAcademyService(
			tx, classes, persistence.NewGormEnrollmentRepository(db), users, log,
		)),
		Gallery:      handler.NewGalleryHandler(galleryapp.NewGalleryService(persistence.NewGormGalleryRepository(db), files, testUploadLimit, log)),
		Testimonials: handler.NewTestimonialHandler(testimonialapp.NewTestimonialService(testimonials, log)),
		Settings:     handler.NewSettingHandler(settings),
		Dashboard:    handler.NewDashboardHandler(dashboardapp.NewDashboardService(orders, products, bookings, classes, testimonials)),
		System:       handler.NewSystemHandler("Glow Studio API", "test", "test", checks...),
	}

	jwtCfg := middleware.JWTConfig{JWTService: jwtSvc, Blacklist: blacklist, Logger: log}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", h.System.Health)
	r := router.NewRouter(engine)
	for _, g := range router.StudioRoutes(h, router.Guards{
		Auth:         middleware.JWTAuth(jwtCfg),
		OptionalAuth: middleware.OptionalJWTAuth(jwtCfg),
	}) {
		r.Register(g)
	}
	r.Setup()

	return &studio{t: t, engine: engine, db: db, jwt: jwtSvc, users: users, files: fs}
}

// do sends a JSON request as the holder of token ("" for anonymous)
func (s *studio) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	req := testutil.Request{Method: method, Path: "/api/v1" + path, Body: body}
	if token != "" {
		req.Headers = map[string]string{"Authorization": "Bearer " + token}
	}
	return testutil.Perform(s.t, s.engine, req)
}

// register signs up a customer through the API and returns the access token
func (s *studio) register(email string) (string, identityapp.UserResponse) {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/register", "", map[string]any{
		"email":     email,
		"password":  "correct-horse-9",
		"full_name": "Test Customer",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	resp := testutil.DecodeData[identityapp.AuthResponse](s.t, w)
	return resp.AccessToken, resp.User
}

// admin seeds an admin account and returns its access token
func (s *studio) admin() string {
	s.t.Helper()
	u, err := identity.NewUser("owner@glowstudio.example", "admin-pass-123", "Studio Owner", identity.RoleAdmin)
	require.NoError(s.t, err)
	require.NoError(s.t, s.users.Create(context.Background(), u))
	pair, err := s.jwt.GenerateTokenPair(auth.Subject{UserID: u.ID, Email: u.Email, Role: string(u.Role)})
	require.NoError(s.t, err)
	return pair.AccessToken
}

// product creates an active product through the admin API
func (s *studio) product(adminToken, name, price string, stock int) catalogapp.ProductResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/admin/products", adminToken, map[string]any{
		"name":  name,
		"price": price,
		"stock": stock,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeData[catalogapp.ProductResponse](s.t, w)
}
