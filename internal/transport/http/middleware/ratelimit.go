package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"hrhub/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

const limiterIdle = 15 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter holds one token bucket per key. Buckets idle for limiterIdle are dropped.
type keyedLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	keyFn   RateLimitKeyFunc
	clients map[string]*limiterEntry
	now     func() time.Time
}

func newKeyedLimiter(perMinute int, keyFn RateLimitKeyFunc) *keyedLimiter {
	if keyFn == nil {
		keyFn = remoteHost
	}
	return &keyedLimiter{
		every:   rate.Limit(float64(perMinute) / 60),
		burst:   perMinute,
		keyFn:   keyFn,
		clients: map[string]*limiterEntry{},
		now:     time.Now,
	}
}

func (kl *keyedLimiter) reserve(r *http.Request) (string, bool, time.Duration) {
	key := kl.keyFn(r)
	if key == "" {
		key = remoteHost(r)
	}
	now := kl.now()

	kl.mu.Lock()
	entry, ok := kl.clients[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(kl.every, kl.burst)}
		kl.clients[key] = entry
	}
	entry.lastSeen = now
	for k, e := range kl.clients {
		if now.Sub(e.lastSeen) > limiterIdle {
			delete(kl.clients, k)
		}
	}
	allowed := entry.limiter.AllowN(now, 1)
	var wait time.Duration
	if !allowed && kl.every > 0 {
		wait = time.Duration(float64(time.Second) / float64(kl.every))
	}
	kl.mu.Unlock()
	return key, allowed, wait
}

// SignInLimit throttles sign-in attempts per client IP and per submitted email. Forwarded
// addresses are only believed from trustedProxies.
func SignInLimit(perMinute int, trustedProxies []netip.Prefix) func(http.Handler) http.Handler {
	ipKey := ClientIPKey(trustedProxies)
	byIP := newKeyedLimiter(perMinute, ipKey)
	byEmail := newKeyedLimiter(perMinute, AuthEmailOrIPKey("email", ipKey))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			for _, kl := range []*keyedLimiter{byIP, byEmail} {
				key, ok, wait := kl.reserve(r)
				if ok {
					continue
				}
				w.Header().Set("Retry-After", strconv.Itoa(max(int(math.Ceil(wait.Seconds())), 1)))
				slog.Warn("rate limit exceeded", "key", key, "path", r.URL.Path, "method", r.Method, "perMinute", perMinute)
				api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many sign-in attempts", GetRequestID(r.Context()))
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
			next.ServeHTTP(w, r)
		})
	}
}

func AuthEmailOrIPKey(field string, fallback RateLimitKeyFunc) RateLimitKeyFunc {
	normalizedField := strings.TrimSpace(field)
	if normalizedField == "" {
		normalizedField = "email"
	}
	if fallback == nil {
		fallback = remoteHost
	}
	return func(r *http.Request) string {
		email := extractJSONField(r, normalizedField)
		if email == "" {
			return fallback(r)
		}
		return "email:" + strings.ToLower(email)
	}
}

// ClientIPKey keys requests by client address. X-Forwarded-For is read only when the direct
// peer is a trusted proxy, and then right to left up to the first untrusted hop.
func ClientIPKey(trusted []netip.Prefix) RateLimitKeyFunc {
	isTrusted := func(addr netip.Addr) bool {
		for _, prefix := range trusted {
			if prefix.Contains(addr) {
				return true
			}
		}
		return false
	}
	return func(r *http.Request) string {
		peer := remoteHost(r)
		addr, err := netip.ParseAddr(peer)
		if err != nil || !isTrusted(addr.Unmap()) {
			return peer
		}
		hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !isTrusted(hop.Unmap()) {
				return hop.Unmap().String()
			}
		}
		return peer
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

// extractJSONField peeks at a JSON body and restores it for the next handler.
func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}
