// Package ratelimit 提供以 key (例如 client IP) 區分的 token bucket 限流
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"recipe-app/internal/api"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter 每個 key 擁有獨立的 limiter；閒置超過 idleTTL 的 key 會被清除
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New 建立 limiter 並啟動背景清除；rps 為每秒允許次數，burst 為瞬間可用的 token 數
func New(rps float64, burst int, idleTTL time.Duration) *KeyedRateLimiter {
	krl := newLimiter(rps, burst, idleTTL)
	go krl.sweepLoop()
	return krl
}

func newLimiter(rps float64, burst int, idleTTL time.Duration) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Allow 不阻塞，回傳此 key 目前是否允許請求
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	e, ok := krl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.limiters[key] = e
	}
	e.lastSeen = krl.now()
	krl.mu.Unlock()

	return e.limiter.Allow()
}

// Stop 結束背景清除 goroutine
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

func (krl *KeyedRateLimiter) sweepLoop() {
	if krl.idleTTL <= 0 {
		<-krl.done
		return
	}
	ticker := time.NewTicker(krl.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			krl.sweep()
		case <-krl.done:
			return
		}
	}
}

func (krl *KeyedRateLimiter) sweep() {
	cutoff := krl.now().Add(-krl.idleTTL)
	krl.mu.Lock()
	defer krl.mu.Unlock()
	for k, e := range krl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(krl.limiters, k)
		}
	}
}

func (krl *KeyedRateLimiter) size() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

// Middleware 以 client IP 為 key，超過限制回傳 429
func Middleware(krl *KeyedRateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !krl.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, api.ErrorResponse{Message: "too many requests, please try again later"})
			}
			return next(c)
		}
	}
}
