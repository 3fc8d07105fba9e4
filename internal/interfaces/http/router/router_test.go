package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glowstudio/backend/internal/infrastructure/auth"
	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/glowstudio/backend/internal/interfaces/http/handler"
	"github.com/glowstudio/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())

	g := NewDomainGroup("test", "/test")
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(g)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v2/test/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/test/ping", nil).Code)
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("items", "/items")
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	g.GET("", ok).POST("", ok).PUT("/:id", ok).PATCH("/:id", ok).DELETE("/:id", ok)
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/items"},
		{http.MethodPost, "/api/v1/items"},
		{http.MethodPut, "/api/v1/items/1"},
		{http.MethodPatch, "/api/v1/items/1"},
		{http.MethodDelete, "/api/v1/items/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func TestDomainGroup_SubgroupsInheritMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("admin", "/admin").Use(func(c *gin.Context) {
		c.Header("X-Guard", "applied")
		c.Next()
	})
	g.Group("orders", "/orders").GET("/:id", func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("id"))
	})
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/admin/orders/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
	assert.Equal(t, "applied", w.Header().Get("X-Guard"))
}

func TestDomainGroup_Routes(t *testing.T) {
	g := NewDomainGroup("admin", "/admin")
	g.GET("/dashboard", nil)
	g.Group("orders", "/orders").GET("", nil).POST("/:id/paid", nil)

	assert.Equal(t, []Route{
		{Group: "admin", Method: http.MethodGet, Path: "/admin/dashboard"},
		{Group: "orders", Method: http.MethodGet, Path: "/admin/orders"},
		{Group: "orders", Method: http.MethodPost, Path: "/admin/orders/:id/paid"},
	}, g.Routes())
}

func studioEngine(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-at-least-32-chars",
		RefreshSecret:          "router-test-refresh-at-least-32-char",
		Issuer:                 "glow-studio-test",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
	})
	jwtCfg := middleware.JWTConfig{JWTService: jwtSvc}
	engine := gin.New()
	r := NewRouter(engine)
	groups := StudioRoutes(Handlers{
		System: handler.NewSystemHandler("Glow Studio API", "test", "test"),
	}, Guards{
		Auth:         middleware.JWTAuth(jwtCfg),
		OptionalAuth: middleware.OptionalJWTAuth(jwtCfg),
	})
	for _, g := range groups {
		r.Register(g)
	}
	require.NotPanics(t, r.Setup)
	return engine, jwtSvc
}

func TestStudioRoutes_NoDuplicates(t *testing.T) {
	seen := make(map[string]string)
	for _, g := range StudioRoutes(Handlers{}, Guards{}) {
		for _, route := range g.Routes() {
			key := route.Method + " " + route.Path
			prev, dup := seen[key]
			assert.False(t, dup, "%s registered by %s and %s", key, prev, route.Group)
			seen[key] = route.Group
		}
	}
	assert.Contains(t, seen, "GET /orders/:id/invoice")
	assert.Contains(t, seen, "GET /admin/orders/:id/invoice")
	assert.Contains(t, seen, "GET /bookings/availability")
	assert.Contains(t, seen, "POST /classes/:ref/enroll")
}

func TestStudioRoutes_Guards(t *testing.T) {
	engine, jwtSvc := studioEngine(t)
	pair, err := jwtSvc.GenerateTokenPair(auth.Subject{UserID: uuid.New(), Email: "mia@example.com", Role: "customer"})
	require.NoError(t, err)
	customer := http.Header{"Authorization": []string{"Bearer " + pair.AccessToken}}

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/info", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/admin/dashboard", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/admin/dashboard", customer).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodPost, "/api/v1/auth/logout", nil).Code)
}
