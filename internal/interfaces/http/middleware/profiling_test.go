package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouteArea(t *testing.T) {
	tests := map[string]string{
		"/api/v1/products/:id":     "products",
		"/api/v1/admin/orders/:id": "orders",
		"/api/v1/public/classes":   "classes",
		"/api/v1/me/bookings":      "me",
		"/health":                  "health",
		"/api/v1/:id":              "",
		"/":                        "",
	}
	for route, want := range tests {
		assert.Equal(t, want, routeArea(route), route)
	}
}

func TestProfiling_LabelsRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Profiling(DefaultProfilingConfig()))

	got := map[string]string{}
	capture := func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
			got[k] = v
			return true
		})
		c.Status(http.StatusOK)
	}
	r.GET("/api/v1/admin/orders/:id", capture)
	r.GET("/health", capture)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/7", nil))
	assert.Equal(t, map[string]string{
		ProfilingLabelMethod: http.MethodGet,
		ProfilingLabelRoute:  "/api/v1/admin/orders/:id",
		ProfilingLabelArea:   "orders",
	}, got)

	got = map[string]string{}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, got, "skipped paths carry no labels")
}

func TestProfiling_Disabled(t *testing.T) {
	w := httptest.NewRecorder()
	okRouter(Profiling(ProfilingConfig{})).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
