package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Pyroscope label names attached to request goroutines
const (
	ProfilingLabelRoute  = "route"
	ProfilingLabelMethod = "method"
	ProfilingLabelArea   = "area"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips probes and the API docs
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/ready"},
		SkipPathPrefixes: []string{"/swagger", "/uploads"},
	}
}

// Profiling labels CPU and allocation samples taken while a request runs so
// profiles can be filtered by route in Pyroscope.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] || hasAnyPrefix(path, cfg.SkipPathPrefixes) {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}

		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(profilingLabels(c.Request.Method, route)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(method, route string) []string {
	labels := []string{ProfilingLabelMethod, method, ProfilingLabelRoute, route}
	if area := routeArea(route); area != "" {
		labels = append(labels, ProfilingLabelArea, area)
	}
	return labels
}

// routeArea returns the resource segment after the API version,
// e.g. "/api/v1/admin/orders/:id" gives "orders".
func routeArea(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	for i := 0; i < len(parts); i++ {
		p := parts[i]
		if p == "api" || p == "admin" || p == "public" || (len(p) > 1 && p[0] == 'v' && p[1] >= '0' && p[1] <= '9') {
			continue
		}
		if strings.HasPrefix(p, ":") || strings.HasPrefix(p, "*") {
			return ""
		}
		return p
	}
	return ""
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
