package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/node-currency-converter/internal/testutils"
)

func TestNewLimiter(t *testing.T) {
	cfg := testutils.MockConfig()
	logger := testutils.MockLogger()

	limiter := NewLimiter(cfg, logger)
	defer limiter.Stop()

	if limiter.Configuration != cfg {
		t.Errorf("NewLimiter() configuration = %v, want %v", limiter.Configuration, cfg)
	}
	if limiter.logger != logger {
		t.Errorf("NewLimiter() logger = %v, want %v", limiter.logger, logger)
	}
	if limiter.clientLimiters == nil {
		t.Errorf("NewLimiter() clientLimiters is nil")
	}
}

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name             string
		rateLimitEnabled bool
		requests         int
		expected         []bool
	}{
		{
			name:             "rate limiting disabled",
			rateLimitEnabled: false,
			requests:         5,
			expected:         []bool{true, true, true, true, true},
		},
		{
			name:             "rate limiting enabled - within limit",
			rateLimitEnabled: true,
			requests:         3,
			expected:         []bool{true, true, true},
		},
		{
			name:             "rate limiting enabled - exceed limit",
			rateLimitEnabled: true,
			requests:         12, // More than burst limit (10)
			expected:         []bool{true, true, true, true, true, true, true, true, true, true, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutils.MockConfig()
			cfg.RateLimitEnabled = tt.rateLimitEnabled
			cfg.RateLimitBurst = 10
			cfg.RateLimitRequests = 100
			cfg.RateLimitWindow = 60 * time.Second

			limiter := NewLimiter(cfg, testutils.MockLogger())
			defer limiter.Stop()

			for i := 0; i < tt.requests; i++ {
				if result := limiter.Allow("192.168.1.1"); result != tt.expected[i] {
					t.Errorf("Allow() request %d = %v, want %v", i, result, tt.expected[i])
				}
			}
		})
	}
}

func TestLimiter_Allow_DifferentIPs(t *testing.T) {
	cfg := testutils.MockConfig()
	cfg.RateLimitBurst = 5

	limiter := NewLimiter(cfg, testutils.MockLogger())
	defer limiter.Stop()

	ip1 := "192.168.1.1"
	ip2 := "192.168.1.2"

	for i := 0; i < 5; i++ {
		if !limiter.Allow(ip1) {
			t.Errorf("Allow() IP1 request %d = false, want true", i)
		}
		if !limiter.Allow(ip2) {
			t.Errorf("Allow() IP2 request %d = false, want true", i)
		}
	}

	if limiter.Allow(ip1) {
		t.Errorf("Allow() IP1 after burst = true, want false")
	}
	if limiter.Allow(ip2) {
		t.Errorf("Allow() IP2 after burst = true, want false")
	}
}

func TestLimiter_GetClientIP(t *testing.T) {
	limiter := NewLimiter(testutils.MockConfig(), testutils.MockLogger())
	defer limiter.Stop()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For header",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "X-Forwarded-For chain",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195, 10.0.0.1"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "X-Real-IP header",
			headers:    map[string]string{"X-Real-IP": "203.0.113.195"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "RemoteAddr fallback",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For with port",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195:8080"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "203.0.113.195",
		},
		{
			name:       "Invalid X-Forwarded-For falls back to RemoteAddr",
			headers:    map[string]string{"X-Forwarded-For": "invalid-ip"},
			remoteAddr: "192.168.1.1:12345",
			expected:   "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			for header, value := range tt.headers {
				req.Header.Set(header, value)
			}

			if result := limiter.GetClientIP(req); result != tt.expected {
				t.Errorf("GetClientIP() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testutils.MockConfig()
	cfg.RateLimitBurst = 2

	limiter := NewLimiter(cfg, testutils.MockLogger())
	defer limiter.Stop()

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)

		if w.Code == http.StatusTooManyRequests && w.Header().Get("X-RateLimit-Remaining") != "0" {
			t.Errorf("Middleware() X-RateLimit-Remaining = %q, want 0", w.Header().Get("X-RateLimit-Remaining"))
		}
	}

	expected := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}
	for i := range expected {
		if codes[i] != expected[i] {
			t.Errorf("Middleware() request %d status = %d, want %d", i, codes[i], expected[i])
		}
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	limiter := NewLimiter(testutils.MockConfig(), testutils.MockLogger())
	defer limiter.Stop()

	limiter.Allow("192.168.1.1")
	limiter.Allow("192.168.1.2")

	if evicted := limiter.evictIdle(time.Now()); evicted != 0 {
		t.Errorf("evictIdle() fresh clients evicted = %d, want 0", evicted)
	}
	if evicted := limiter.evictIdle(time.Now().Add(25 * time.Hour)); evicted != 2 {
		t.Errorf("evictIdle() idle clients evicted = %d, want 2", evicted)
	}
}

func TestLimiter_Stop(t *testing.T) {
	limiter := NewLimiter(testutils.MockConfig(), testutils.MockLogger())

	// Stop should not panic, even twice
	limiter.Stop()
	limiter.Stop()
}
