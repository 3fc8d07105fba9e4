package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remoteAddr string
		want       int
	}{
		{"disabled", SwaggerConfig{Enabled: false}, "10.0.0.1:5000", http.StatusNotFound},
		{"open", SwaggerConfig{Enabled: true}, "203.0.113.9:5000", http.StatusOK},
		{"exact ip", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, "10.0.0.1:5000", http.StatusOK},
		{"cidr", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, "192.168.4.20:5000", http.StatusOK},
		{"outside", SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16", "bogus"}}, "203.0.113.9:5000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			w := httptest.NewRecorder()
			okRouter(SwaggerProtection(tt.cfg)).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestParseAllowList(t *testing.T) {
	nets := parseAllowList([]string{"10.0.0.1", "::1", "172.16.0.0/12", "nope", "1.2.3.4/99"})
	assert.Len(t, nets, 3)
	assert.True(t, ipAllowed(net.ParseIP("::1"), nets))
	assert.True(t, ipAllowed(net.ParseIP("172.20.1.1"), nets))
	assert.False(t, ipAllowed(net.ParseIP("10.0.0.2"), nets))
	assert.False(t, ipAllowed(nil, nets))
}
