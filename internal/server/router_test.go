package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"coursedash/internal/config"
	"coursedash/internal/courses"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `{"cursos":[
	{"nombre":"Go","fecha":"2021-03-10","categoria":"Programación"},
	{"nombre":"Docker","fecha":"2022-07-01","categoria":"DevOps"}
]}`

func newTestRouter(t *testing.T, rl config.RateLimitConfig) http.Handler {
	t.Helper()
	return newProxiedTestRouter(t, rl, false)
}

func newProxiedTestRouter(t *testing.T, rl config.RateLimitConfig, trustProxy bool) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	loader := courses.NewLoader(courses.BytesSource{Label: "test", Data: []byte(dataset), Format: "json"}, time.Second, log)
	loader.Start(context.Background())
	require.NoError(t, loader.Wait(context.Background()))

	svc := courses.NewService(loader, courses.Defaults{Title: "Cursos"})
	return NewRouter(Deps{
		Courses:    courses.NewHandler(svc, log),
		MCP:        http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) }),
		Static:     fstest.MapFS{"dashboard.css": {Data: []byte("body{}")}},
		Log:        log,
		TrustProxy: trustProxy,
		RateLimit:  rl,
		CORS:       config.CORSConfig{AllowedOrigins: []string{"https://example.org"}},
	})
}

func get(h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterRoutes(t *testing.T) {
	h := newTestRouter(t, config.RateLimitConfig{})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/health", http.StatusOK, "ok"},
		{"/static/dashboard.css", http.StatusOK, "body{}"},
		{"/api/status", http.StatusOK, `"state":"ready"`},
		{"/api/metrics", http.StatusOK, `"totalCourses":2`},
		{"/api/categories", http.StatusOK, "DevOps"},
		{"/", http.StatusOK, "Cursos"},
		{"/fragments/table", http.StatusOK, "course-table"},
		{"/missing/route", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(h, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestRouterMCPMethods(t *testing.T) {
	h := newTestRouter(t, config.RateLimitConfig{})

	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(m, "/mcp", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code, m)
	}
}

func TestRouterCORS(t *testing.T) {
	h := newTestRouter(t, config.RateLimitConfig{})

	rec := get(h, "/api/metrics", "Origin", "https://example.org")
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(h, "/api/metrics", "Origin", "https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRateLimit(t *testing.T) {
	h := newTestRouter(t, config.RateLimitConfig{RPS: 0.001, Burst: 2})

	assert.Equal(t, http.StatusOK, get(h, "/api/metrics").Code)
	assert.Equal(t, http.StatusOK, get(h, "/api/metrics").Code)
	rec := get(h, "/api/metrics")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// pages are not limited
	assert.Equal(t, http.StatusOK, get(h, "/").Code)
}

func TestRouterRateLimitIgnoresForwardedFor(t *testing.T) {
	h := newTestRouter(t, config.RateLimitConfig{RPS: 0.001, Burst: 2})

	for i, ip := range []string{"198.51.100.1", "198.51.100.2"} {
		rec := get(h, "/api/metrics", "X-Forwarded-For", ip)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
	rec := get(h, "/api/metrics", "X-Forwarded-For", "198.51.100.3")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouterRateLimitTrustedProxy(t *testing.T) {
	h := newProxiedTestRouter(t, config.RateLimitConfig{RPS: 0.001, Burst: 1}, true)

	assert.Equal(t, http.StatusOK, get(h, "/api/metrics", "X-Forwarded-For", "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "/api/metrics", "X-Forwarded-For", "198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, get(h, "/api/metrics", "X-Forwarded-For", "198.51.100.2").Code)
}

func TestKeyedRateLimiterEvictsIdleClients(t *testing.T) {
	k := NewKeyedRateLimiter(0.001, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	k.now = func() time.Time { return now }

	assert.True(t, k.Allow("10.0.0.1"))
	assert.False(t, k.Allow("10.0.0.1"))
	assert.Equal(t, 1, k.Len())

	now = now.Add(limiterIdleTTL / 2)
	assert.True(t, k.Allow("10.0.0.2"))
	assert.Equal(t, 2, k.Len())

	// 10.0.0.1 has been idle a full TTL, 10.0.0.2 only half.
	now = now.Add(limiterIdleTTL / 2)
	assert.True(t, k.Allow("10.0.0.3"))
	assert.Equal(t, 2, k.Len())

	// a fresh bucket, not the exhausted one
	assert.True(t, k.Allow("10.0.0.1"))
}

func TestKeyedRateLimiterPerClient(t *testing.T) {
	k := NewKeyedRateLimiter(0.001, 1)
	assert.True(t, k.Allow("10.0.0.1"))
	assert.False(t, k.Allow("10.0.0.1"))
	assert.True(t, k.Allow("10.0.0.2"))
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientKey(r))

	r.RemoteAddr = "192.0.2.7"
	assert.Equal(t, "192.0.2.7", clientKey(r))
}
