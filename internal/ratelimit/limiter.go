package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dalfonso89/node-currency-converter/internal/config"
	"github.com/dalfonso89/node-currency-converter/internal/logger"
	"github.com/dalfonso89/node-currency-converter/internal/models"
)

const idleClientTTL = 24 * time.Hour

// Limiter applies a token bucket per client IP
type Limiter struct {
	Configuration *config.Config
	logger        *logger.Logger

	clientLimiters map[string]*clientLimiter
	limitersMutex  sync.Mutex

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter creates a new rate limiter and starts its cleanup goroutine
func NewLimiter(configuration *config.Config, logger *logger.Logger) *Limiter {
	rateLimiter := &Limiter{
		Configuration:  configuration,
		logger:         logger,
		clientLimiters: make(map[string]*clientLimiter),
		cleanupTicker:  time.NewTicker(5 * time.Minute),
		stopCleanup:    make(chan struct{}),
	}

	go rateLimiter.cleanup()

	return rateLimiter
}

// refillRate spreads RateLimitRequests evenly over RateLimitWindow.
func (rateLimiter *Limiter) refillRate() rate.Limit {
	window := rateLimiter.Configuration.RateLimitWindow
	if window <= 0 || rateLimiter.Configuration.RateLimitRequests <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(rateLimiter.Configuration.RateLimitRequests) / window.Seconds())
}

// Allow checks if a request from the given IP is allowed
func (rateLimiter *Limiter) Allow(clientIP string) bool {
	if !rateLimiter.Configuration.RateLimitEnabled {
		return true
	}

	rateLimiter.limitersMutex.Lock()
	client, exists := rateLimiter.clientLimiters[clientIP]
	if !exists {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rateLimiter.refillRate(), rateLimiter.Configuration.RateLimitBurst),
		}
		rateLimiter.clientLimiters[clientIP] = client
	}
	client.lastSeen = time.Now()
	rateLimiter.limitersMutex.Unlock()

	return client.limiter.Allow()
}

// Middleware rejects requests over the limit with 429
func (rateLimiter *Limiter) Middleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		clientIP := rateLimiter.GetClientIP(context.Request)

		if !rateLimiter.Allow(clientIP) {
			rateLimiter.logger.Component("ratelimit").WithField("client_ip", clientIP).Warn("Rate limit exceeded")
			context.Header("X-RateLimit-Limit", strconv.Itoa(rateLimiter.Configuration.RateLimitRequests))
			context.Header("X-RateLimit-Remaining", "0")
			context.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(rateLimiter.Configuration.RateLimitWindow).Unix(), 10))
			context.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limited",
				Message: "Rate limit exceeded",
				Code:    http.StatusTooManyRequests,
			})
			return
		}

		context.Next()
	}
}

// GetClientIP extracts the real client IP from the request
func (rateLimiter *Limiter) GetClientIP(request *http.Request) string {
	// X-Forwarded-For may carry a chain; the first entry is the client
	if xForwardedFor := request.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		first := strings.TrimSpace(strings.Split(xForwardedFor, ",")[0])
		if clientIP := net.ParseIP(first); clientIP != nil {
			return clientIP.String()
		}
		if host, _, err := net.SplitHostPort(first); err == nil {
			if clientIP := net.ParseIP(host); clientIP != nil {
				return clientIP.String()
			}
		}
	}

	if xRealIP := request.Header.Get("X-Real-IP"); xRealIP != "" {
		if clientIP := net.ParseIP(strings.TrimSpace(xRealIP)); clientIP != nil {
			return clientIP.String()
		}
	}

	clientIP, _, parseError := net.SplitHostPort(request.RemoteAddr)
	if parseError != nil {
		return request.RemoteAddr
	}
	return clientIP
}

// cleanup drops limiters of clients idle for longer than idleClientTTL
func (rateLimiter *Limiter) cleanup() {
	for {
		select {
		case <-rateLimiter.cleanupTicker.C:
			rateLimiter.evictIdle(time.Now())
		case <-rateLimiter.stopCleanup:
			rateLimiter.cleanupTicker.Stop()
			return
		}
	}
}

func (rateLimiter *Limiter) evictIdle(now time.Time) int {
	rateLimiter.limitersMutex.Lock()
	defer rateLimiter.limitersMutex.Unlock()

	evicted := 0
	for clientIP, client := range rateLimiter.clientLimiters {
		if now.Sub(client.lastSeen) > idleClientTTL {
			delete(rateLimiter.clientLimiters, clientIP)
			evicted++
		}
	}
	return evicted
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rateLimiter *Limiter) Stop() {
	rateLimiter.stopOnce.Do(func() { close(rateLimiter.stopCleanup) })
}
