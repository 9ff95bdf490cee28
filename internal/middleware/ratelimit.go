package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// idleClientTTL bestimmt, wann ein Client-Limiter als verwaist gilt und verworfen wird.
	idleClientTTL = 3 * time.Minute
	// maxClients begrenzt die Anzahl eigener Limiter; weitere Clients teilen sich overflow.
	maxClients = 10_000
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter hält einen Token-Bucket pro Client-IP.
type clientLimiter struct {
	mu      sync.Mutex
	clients  map[string]*client
	overflow *rate.Limiter
	limit    int
	rps      rate.Limit
	burst    int
	now      func() time.Time
	sweep    time.Time
}

func newClientLimiter(requestsPerSecond float64) *clientLimiter {
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		clients:  make(map[string]*client),
		overflow: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		limit:    maxClients,
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.sweep) > idleClientTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > idleClientTTL {
				delete(l.clients, k)
			}
		}
		l.sweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= l.limit {
			return l.overflow.AllowN(now, 1)
		}
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// clientKey liefert die IP des Socket-Partners ohne Port. X-Forwarded-For und
// ähnliche Header werden nicht ausgewertet.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit gibt eine Middleware zurück, die Anfragen pro Client-IP auf requestsPerSecond begrenzt.
func RateLimit(requestsPerSecond float64, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := newClientLimiter(requestsPerSecond)
	retryAfter := strconv.Itoa(max(1, int(1/requestsPerSecond)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.allow(key) {
				logger.Warn("rate-limit überschritten",
					zap.String("client", key),
					zap.String("pfad", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", retryAfter)
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "zu viele anfragen",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
