package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

type RateLimitConfig struct {
	// Requests per window
	Limit  int
	Window time.Duration
	// Client is optional; without it counters live in process memory.
	Client *goredis.Client
	// KeyFunc defaults to the client IP
	KeyFunc   func(*gin.Context) string
	KeyPrefix string
	// Reject requests when Redis errors instead of falling back to memory
	FailClosed bool
}

// GlobalRateLimitConfig applies to every route.
func GlobalRateLimitConfig(client *goredis.Client, limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		Client:    client,
		KeyPrefix: "rl:ip:",
	}
}

// LoginRateLimitConfig is the stricter limit for register and login.
func LoginRateLimitConfig(client *goredis.Client, limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		Client:     client,
		KeyPrefix:  "rl:login:",
		FailClosed: true,
	}
}

// fixedWindow is the state of one key after an increment.
type fixedWindow struct {
	count   int
	resetAt time.Time
}

type counter interface {
	Incr(ctx context.Context, key string, span time.Duration) (fixedWindow, error)
}

// KEYS[1] = counter key, ARGV[1] = window in ms. Returns {count, pttl}.
var incrScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('PTTL', KEYS[1])}
`)

type redisCounter struct {
	client *goredis.Client
}

func (r redisCounter) Incr(ctx context.Context, key string, span time.Duration) (fixedWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	res, err := incrScript.Run(ctx, r.client, []string{key}, span.Milliseconds()).Int64Slice()
	if err != nil {
		return fixedWindow{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return fixedWindow{}, errors.New("rate limit script: unexpected result")
	}

	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl <= 0 {
		ttl = span
	}
	return fixedWindow{count: int(res[0]), resetAt: time.Now().Add(ttl)}, nil
}

const sweepInterval = 5 * time.Minute

// memoryCounter keeps windows for a single process. Expired keys are swept
// lazily on increment.
type memoryCounter struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	swept   time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{windows: make(map[string]*fixedWindow), swept: time.Now()}
}

func (m *memoryCounter) Incr(_ context.Context, key string, span time.Duration) (fixedWindow, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.swept) > sweepInterval {
		for k, w := range m.windows {
			if now.After(w.resetAt) {
				delete(m.windows, k)
			}
		}
		m.swept = now
	}

	w, ok := m.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &fixedWindow{resetAt: now.Add(span)}
		m.windows[key] = w
	}
	w.count++
	return *w, nil
}

// RateLimitMiddleware counts requests per key in Redis, or in memory when
// no client is configured.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	fallback := newMemoryCounter()
	var primary counter = fallback
	if config.Client != nil {
		primary = redisCounter{client: config.Client}
	}

	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)

		w, err := primary.Incr(c.Request.Context(), key, config.Window)
		if err != nil {
			if config.FailClosed {
				logRateLimitError(c, err)
				c.Error(apperror.ServiceUnavailable("Service temporarily unavailable. Please try again."))
				c.Abort()
				return
			}
			logger.Log.Warn("Rate limit falling back to memory", "error", err, "key_prefix", config.KeyPrefix)
			w, _ = fallback.Incr(c.Request.Context(), key, config.Window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(w.resetAt.Unix(), 10))

		if remaining := config.Limit - w.count; remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
			c.Next()
			return
		}

		retryAfter := int(time.Until(w.resetAt).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		security.DefaultLogger().LogRateLimitTriggered(
			c.Request.Context(),
			c.ClientIP(),
			c.GetHeader("User-Agent"),
			c.GetString(string(domain.KeyRequestID)),
			c.FullPath(),
		)

		c.Error(apperror.TooManyRequests("Rate limit exceeded. Please try again later."))
		c.Abort()
	}
}

func logRateLimitError(c *gin.Context, err error) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   c.GetString(string(domain.KeyRequestID)),
		Details: map[string]interface{}{
			"error_type": "redis_error",
			"error":      err.Error(),
		},
	})
}
