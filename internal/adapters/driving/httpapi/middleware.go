package httpapi

import (
	"fmt"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// MaxBodyBytes caps request bodies, inventory uploads included.
const MaxBodyBytes = 5 << 20

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Flush passes through so streaming handlers such as the mounted MCP
// endpoint can push events.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// logRequests logs one line per request.
func logRequests(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		}
		switch {
		case rec.status >= 500:
			log.Errorw("request", fields...)
		case rec.status >= 400:
			log.Infow("request", fields...)
		default:
			log.Debugw("request", fields...)
		}
	})
}

// recoverPanics turns a handler panic into a 500.
func recoverPanics(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Errorw("handler panic", "path", r.URL.Path, "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
			writeError(w, fmt.Errorf("panic: %v", rec))
		}()
		next.ServeHTTP(w, r)
	})
}

// limitBody caps the request body at MaxBodyBytes.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// tenantLimiter holds one token bucket per tenant.
type tenantLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// newTenantLimiter returns nil when rps is not positive, disabling limiting.
func newTenantLimiter(rps float64, burst int) *tenantLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = int(math.Ceil(rps))
	}
	return &tenantLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *tenantLimiter) get(tenantID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[tenantID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[tenantID] = lim
	}
	return lim
}

// allow takes a token for tenantID. When the bucket is empty it returns
// ErrRateLimited and sets Retry-After.
func (l *tenantLimiter) allow(w http.ResponseWriter, tenantID string) error {
	if l == nil {
		return nil
	}
	lim := l.get(tenantID)
	if lim.Allow() {
		return nil
	}
	wait := time.Duration(float64(time.Second) / float64(l.limit))
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	return fmt.Errorf("tenant %s: %w", tenantID, domain.ErrRateLimited)
}
