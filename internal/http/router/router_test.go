package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "github.com/jimmyqian/sovra-ui-sub000/internal/http"
	"github.com/jimmyqian/sovra-ui-sub000/platform/config"
	"github.com/jimmyqian/sovra-ui-sub000/platform/logger"

	"github.com/gin-gonic/gin"
)

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func newTestApp() *apphttp.App {
	return &apphttp.App{
		Config: &config.Config{
			Env:            "development",
			CORSOrigins:    []string{"http://localhost:5173"},
			RateLimitRPS:   100,
			RateLimitBurst: 100,
		},
		Logger:  logger.Discard(),
		Modules: []apphttp.Module{pingModule{}},
	}
}

func TestHealthAndModuleRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(newTestApp())

	cases := []struct {
		path string
		want int
	}{
		{"/api/health", http.StatusOK},
		{"/api/v1/ping", http.StatusOK},
		{"/api/v1/missing", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.want {
			t.Errorf("GET %s: expected %d, got %d", tc.path, tc.want, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("GET %s: expected a request ID header", tc.path)
		}
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := New(newTestApp())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a foreign origin, got %d", w.Code)
	}
}
