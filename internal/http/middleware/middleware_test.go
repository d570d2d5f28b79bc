package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestRateLimitPerIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := RateLimit(ctx, 1, 2)(http.HandlerFunc(ok))

	do := func(addr, path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1000", "/"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1001", "/"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002", "/"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1000", "/"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1003", "/health"))
}

func TestLimiterStoreSweep(t *testing.T) {
	s := newLimiterStore(1, 1, time.Minute)
	s.get("a")
	s.entries["a"].lastSeen = time.Now().Add(-2 * time.Minute)
	s.get("b")
	s.sweep()
	assert.Len(t, s.entries, 1)
	assert.Contains(t, s.entries, "b")
}

func TestAccessLogRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := AccessLog(logger)(http.HandlerFunc(ok))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes/filter/all", nil))
	assert.Contains(t, buf.String(), `"status":204`)
	assert.Contains(t, buf.String(), `"path":"/notes/filter/all"`)
}

func preflight(h http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/notes", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Idempotency-Key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsIdempotencyKey(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"http://web.test"}, AllowCredentials: true})(http.HandlerFunc(ok))

	rec := preflight(h, "http://web.test")
	assert.Equal(t, "http://web.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")

	rec = preflight(h, "http://other.test")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardDropsCredentials(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true})(http.HandlerFunc(ok))

	rec := preflight(h, "http://any.test")
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}
