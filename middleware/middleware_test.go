package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"checkout-service/logger"
	"checkout-service/middleware"
	aws_pkg "checkout-service/pkg/aws"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- request id + logging ----

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = c.GetString(logger.RequestIDKey)
		c.Status(http.StatusNoContent)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/bad", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.NotEmpty(t, entries[0].ContextMap()[logger.RequestIDKey])
	assert.Equal(t, "/bad", entries[1].ContextMap()["path"])
}

func TestTimeout_SetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Timeout(time.Second))
	var hasDeadline bool
	r.GET("/x", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})
	serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.True(t, hasDeadline)
}

// ---- security ----

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	rl := middleware.NewRateLimiter(rate.Every(time.Hour), 2, time.Minute)
	defer rl.Stop()

	r := gin.New()
	r.Use(middleware.RateLimit(rl))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestPerMinute(t *testing.T) {
	assert.Equal(t, rate.Inf, middleware.PerMinute(0))
	assert.InDelta(t, 2.0, float64(middleware.PerMinute(120)), 1e-9)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://shop.example.com/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := serve(r, req)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ---- auth ----

const testSecret = "test-secret"

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func adminRouter() *gin.Engine {
	r := gin.New()
	r.GET("/admin", middleware.JWTAuth([]byte(testSecret)), middleware.AdminOnly(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.UserContextKey))
	})
	return r
}

func authed(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestJWTAuth(t *testing.T) {
	r := adminRouter()
	exp := time.Now().Add(time.Hour).Unix()

	admin := signed(t, jwt.MapClaims{"sub": "u-1", "role": "admin", "typ": "access", "exp": exp})
	w := serve(r, authed(admin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", w.Body.String())

	customer := signed(t, jwt.MapClaims{"sub": "u-2", "role": "customer", "typ": "access", "exp": exp})
	assert.Equal(t, http.StatusForbidden, serve(r, authed(customer)).Code)

	refresh := signed(t, jwt.MapClaims{"sub": "u-1", "role": "admin", "typ": "refresh", "exp": exp})
	assert.Equal(t, http.StatusUnauthorized, serve(r, authed(refresh)).Code)

	expired := signed(t, jwt.MapClaims{"sub": "u-1", "role": "admin", "typ": "access", "exp": time.Now().Add(-time.Minute).Unix()})
	assert.Equal(t, http.StatusUnauthorized, serve(r, authed(expired)).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(r, authed("")).Code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", admin)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestParseToken_NoSecret(t *testing.T) {
	_, err := middleware.ParseToken(nil, "x", "")
	assert.ErrorIs(t, err, middleware.ErrNoSecret)
}

// ---- metrics ----

type recordedMetrics struct {
	mu      sync.Mutex
	counts  map[string]int
	latency int
}

func (m *recordedMetrics) IsEnabled() bool { return true }

func (m *recordedMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
	return nil
}

func (m *recordedMetrics) RecordLatency(_ context.Context, _ string, _ time.Duration, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency++
	return nil
}

func (m *recordedMetrics) get(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

func TestMetrics_RecordsErrorClass(t *testing.T) {
	m := &recordedMetrics{counts: map[string]int{}}
	r := gin.New()
	r.Use(middleware.Metrics(m, "checkout-service"))
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	serve(r, httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Eventually(t, func() bool {
		return m.get(aws_pkg.MetricHTTPRequests) == 1 && m.get(aws_pkg.MetricHTTP4xx) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, m.get(aws_pkg.MetricHTTP5xx))
}

func TestMetrics_DisabledClientPassesThrough(t *testing.T) {
	var disabled *aws_pkg.MetricsClient
	r := gin.New()
	r.Use(middleware.Metrics(disabled, "checkout-service"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}
