package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// RateLimiter allows each client IP limit requests per window.
type RateLimiter struct {
	limits     sync.Map
	limit      int32
	window     time.Duration
	cleanupInt time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

type clientData struct {
	requests atomic.Int32
	timer    *time.Timer
}

func NewRateLimiter(limit int, window time.Duration, cleanupInt time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:      int32(limit),
		window:     window,
		cleanupInt: cleanupInt,
		stop:       make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInt)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}
		rl.limits.Range(func(key, value interface{}) bool {
			data := value.(*clientData)
			if data.requests.Load() == 0 {
				data.timer.Stop()
				rl.limits.Delete(key)
			}
			return true
		})
	}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) != nil {
		return ip
	}
	return ""
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)
		data, ok := rl.limits.Load(clientIP)
		if !ok {
			fresh := &clientData{timer: time.AfterFunc(rl.window, func() { rl.resetRequests(clientIP) })}
			var loaded bool
			if data, loaded = rl.limits.LoadOrStore(clientIP, fresh); loaded {
				fresh.timer.Stop()
			}
		}
		client := data.(*clientData)

		if client.requests.Add(1) > rl.limit {
			w.Header().Set("Retry-After", rl.retryAfter())
			HttpError(w, r, "Too many requests", http.StatusTooManyRequests, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) retryAfter() string {
	secs := int(rl.window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func (rl *RateLimiter) resetRequests(clientIP string) {
	data, ok := rl.limits.Load(clientIP)
	if !ok {
		return
	}
	client := data.(*clientData)
	client.requests.Store(0)
	client.timer.Reset(rl.window)
}
