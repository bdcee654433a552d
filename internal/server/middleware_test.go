package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	h := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/layout", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "path=/api/v1/layout")
	assert.Contains(t, out, "status=418")
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestLimiter(t *testing.T) {
	now := time.Date(1300, 5, 1, 0, 0, 0, 0, time.UTC)
	l := NewLimiter(1, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"), "bucket refills")

	now = now.Add(clientTTL + time.Second)
	assert.Equal(t, 2, l.Prune())
	assert.Equal(t, 0, l.Prune())

	off := NewLimiter(0, 0)
	for range 100 {
		assert.True(t, off.Allow("a"))
	}
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		trusted []netip.Prefix
		want    string
	}{
		{"remote addr", nil, "203.0.113.9:5000", proxies, "203.0.113.9"},
		{"no port", nil, "203.0.113.9", proxies, "203.0.113.9"},
		{"headers ignored without proxies", map[string]string{"X-Real-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"}, "10.0.0.1:5000", nil, "10.0.0.1"},
		{"headers ignored from untrusted peer", map[string]string{"X-Forwarded-For": "5.6.7.8"}, "203.0.113.9:5000", proxies, "203.0.113.9"},
		{"real ip from proxy", map[string]string{"X-Real-IP": "1.2.3.4"}, "10.0.0.1:5000", proxies, "1.2.3.4"},
		{"rightmost untrusted hop", map[string]string{"X-Forwarded-For": "6.6.6.6, 5.6.7.8, 10.0.0.2"}, "10.0.0.1:5000", proxies, "5.6.7.8"},
		{"garbage hop falls back to peer", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.1:5000", proxies, "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trusted))
		})
	}
}

func TestLimiterIgnoresSpoofedForwarding(t *testing.T) {
	l := NewLimiter(0.001, 1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := range 3 {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.Len(t, l.clients, 1, "one bucket per real peer")
}
