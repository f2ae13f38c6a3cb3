package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// fixedWindow counts hits per key in windows of length per.
type fixedWindow struct {
	mu      sync.Mutex
	limit   int
	per     time.Duration
	windows map[string]window
	swept   time.Time
}

type window struct {
	count int
	until time.Time
}

func newFixedWindow(limit int, per time.Duration) *fixedWindow {
	return &fixedWindow{limit: limit, per: per, windows: make(map[string]window)}
}

// allow records a hit for key. When the key is over its limit it reports
// false and how long until the window resets.
func (f *fixedWindow) allow(key string, now time.Time) (bool, time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if now.Sub(f.swept) > f.per {
		for k, w := range f.windows {
			if now.After(w.until) {
				delete(f.windows, k)
			}
		}
		f.swept = now
	}

	w, ok := f.windows[key]
	if !ok || now.After(w.until) {
		w = window{until: now.Add(f.per)}
	}
	if w.count >= f.limit {
		return false, w.until.Sub(now)
	}
	w.count++
	f.windows[key] = w
	return true, 0
}

// RateLimit allows limit requests per client IP in each fixed window of per.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	fw := newFixedWindow(limit, per)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retry := fw.allow(ClientIP(r), time.Now())
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
