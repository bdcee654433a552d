package server

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/matzehuels/factionmap/pkg/errors"
)

// HeaderRequestID carries the request correlation id.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFrom returns the request id stored by [RequestID].
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID attaches a correlation id to every request. A client-supplied
// X-Request-ID is kept; otherwise a time-ordered UUID is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			if v7, err := uuid.NewV7(); err == nil {
				id = v7.String()
			} else {
				id = uuid.NewString()
			}
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// Logger logs one line per request and stores a request-scoped logger in
// the context for handlers.
func Logger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With(
				"request_id", RequestIDFrom(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(log.WithContext(r.Context(), reqLogger)))

			kv := []any{
				"status", rec.status,
				"bytes", rec.bytes,
				"latency", time.Since(start).Round(time.Microsecond),
			}
			switch {
			case rec.status >= 500:
				reqLogger.Error("request", kv...)
			case rec.status >= 400:
				reqLogger.Warn("request", kv...)
			default:
				reqLogger.Info("request", kv...)
			}
		})
	}
}

// Recover turns a panic into a 500 response and logs the stack.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				stack := make([]byte, 2048)
				stack = stack[:runtime.Stack(stack, false)]
				log.FromContext(r.Context()).Error("panic recovered", "panic", v, "stack", string(stack))
				writeError(w, errors.New(errors.ErrCodeInternal, "an unexpected error occurred"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// clientTTL is how long an idle client's bucket is kept.
const clientTTL = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a per-IP token bucket rate limiter.
type Limiter struct {
	rps     rate.Limit
	burst   int
	trusted []netip.Prefix

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

// NewLimiter allows rps requests per second per client IP with the given
// burst. rps <= 0 disables limiting. Proxy headers are believed only from
// peers in trusted; see [ClientIP].
func NewLimiter(rps float64, burst int, trusted ...netip.Prefix) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		trusted: trusted,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// Allow reports whether a request from ip may proceed.
func (l *Limiter) Allow(ip string) bool {
	if l.rps <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = l.now()
	return c.limiter.AllowN(c.lastSeen, 1)
}

// Prune drops clients idle for longer than the client TTL and returns how
// many were removed.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, c := range l.clients {
		if l.now().Sub(c.lastSeen) > clientTTL {
			delete(l.clients, ip)
			n++
		}
	}
	return n
}

// Run prunes idle clients every minute until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Prune()
		case <-ctx.Done():
			return
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r, l.trusted)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, errors.New(errors.ErrCodeRateLimited, "rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the address the rate limiter keys on. X-Forwarded-For
// and X-Real-IP are honoured only when the direct peer is inside one of the
// trusted proxy prefixes; otherwise any client could pick a fresh address
// per request. X-Forwarded-For is read right to left and the first hop not
// in a trusted prefix wins.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := remoteHost(r.RemoteAddr)
	addr, err := netip.ParseAddr(peer)
	if err != nil || !inPrefixes(addr, trusted) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !inPrefixes(hop, trusted) {
				return hop.String()
			}
		}
	}
	if xr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xr.String()
	}
	return peer
}

func remoteHost(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}

func inPrefixes(addr netip.Addr, prefixes []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
