package middlewares

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Window is one fixed rate-limit window: at most Limit requests per Period.
type Window struct {
	Limit  int
	Period time.Duration
}

// RateLimiter tracks request timestamps per key against one or more
// windows. Exceeding any window blocks the request. Anonymous actions key
// by client IP; authenticated actions key by account so a shared NAT does
// not penalize unrelated users.
type RateLimiter struct {
	name    string
	byUser  bool
	windows []Window

	mu   sync.Mutex
	hits map[string][]time.Time
}

func NewRateLimiter(name string, byUser bool, windows ...Window) *RateLimiter {
	return &RateLimiter{
		name:    name,
		byUser:  byUser,
		windows: windows,
		hits:    make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) key(c *gin.Context) string {
	if rl.byUser {
		if userID, ok := c.Get("user_id"); ok {
			return fmt.Sprintf("user:%v", userID)
		}
	}
	return "ip:" + c.ClientIP()
}

// longestPeriod bounds how far back timestamps need to be kept.
func (rl *RateLimiter) longestPeriod() time.Duration {
	var longest time.Duration
	for _, w := range rl.windows {
		if w.Period > longest {
			longest = w.Period
		}
	}
	return longest
}

func (rl *RateLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.longestPeriod())
	valid := rl.hits[key][:0]
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	rl.hits[key] = valid

	for _, w := range rl.windows {
		windowStart := now.Add(-w.Period)
		count := 0
		for _, t := range valid {
			if t.After(windowStart) {
				count++
			}
		}
		if count >= w.Limit {
			return false, w.Period
		}
	}

	rl.hits[key] = append(valid, now)
	return true, 0
}

// Middleware blocks the request with a fixed 429 payload once any window
// is exhausted.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, period := rl.allow(rl.key(c), time.Now())
		if !allowed {
			retryAfter := int(period.Seconds())
			if retryAfter > 60 {
				retryAfter = 60
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":      false,
				"message":     "Too many requests. Please wait a moment before trying again.",
				"retry_after": retryAfter,
			})
			return
		}
		c.Next()
	}
}

// Per-action limiter presets. Thresholds are a short window plus a long
// window; anonymous actions key by IP, account actions by user.

func LoginRateLimiter() *RateLimiter {
	return NewRateLimiter("login", false,
		Window{Limit: 20, Period: time.Minute},
		Window{Limit: 60, Period: time.Hour})
}

func RegistrationRateLimiter() *RateLimiter {
	return NewRateLimiter("registration", false,
		Window{Limit: 3, Period: time.Hour},
		Window{Limit: 10, Period: 24 * time.Hour})
}

func PaymentRateLimiter() *RateLimiter {
	return NewRateLimiter("payment", true,
		Window{Limit: 3, Period: time.Minute},
		Window{Limit: 20, Period: time.Hour})
}

func OrderRateLimiter() *RateLimiter {
	return NewRateLimiter("order", true,
		Window{Limit: 10, Period: time.Minute},
		Window{Limit: 50, Period: time.Hour})
}

func PasswordResetRateLimiter() *RateLimiter {
	return NewRateLimiter("password_reset", false,
		Window{Limit: 3, Period: time.Hour},
		Window{Limit: 5, Period: 24 * time.Hour})
}

func DataExportRateLimiter() *RateLimiter {
	return NewRateLimiter("data_export", true,
		Window{Limit: 5, Period: time.Minute},
		Window{Limit: 30, Period: time.Hour})
}

func APIRateLimiter() *RateLimiter {
	return NewRateLimiter("api", false,
		Window{Limit: 30, Period: time.Minute},
		Window{Limit: 500, Period: time.Hour})
}

func GeneralRateLimiter() *RateLimiter {
	return NewRateLimiter("general", false,
		Window{Limit: 60, Period: time.Minute},
		Window{Limit: 1000, Period: time.Hour})
}

// NewStrictRateLimiter is a process-wide burst guard in front of the auth
// endpoints, on top of the per-key windows above.
func NewStrictRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Second), 25)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":      false,
				"message":     "Too many requests. Please wait a moment before trying again.",
				"retry_after": 1,
			})
			return
		}
		c.Next()
	}
}
