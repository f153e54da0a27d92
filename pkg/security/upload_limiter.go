package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps file uploads per user per day with a Redis sliding window.
type UploadLimiter struct {
	client    *goredis.Client
	maxPerDay int
	now       func() time.Time
}

// KEYS[1] = window key, ARGV[1] = limit, ARGV[2] = window seconds, ARGV[3] = now (unix).
// Returns 1 when the upload is allowed.
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
    return 0
end
redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

func NewUploadLimiter(client *goredis.Client, maxPerDay int) *UploadLimiter {
	if maxPerDay <= 0 {
		maxPerDay = 50
	}
	return &UploadLimiter{client: client, maxPerDay: maxPerDay, now: time.Now}
}

// AllowUpload reports whether userID may upload another file. It allows
// everything when Redis is not configured.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, userID string) (bool, error) {
	if ul.client == nil || userID == "" {
		return true, nil
	}

	key := "ratelimit:upload:user:" + userID
	result, err := ul.client.Eval(ctx, uploadRateLimitScript, []string{key}, ul.maxPerDay, 86400, ul.now().Unix()).Result()
	if err != nil {
		return false, fmt.Errorf("upload limit check failed: %w", err)
	}
	allowed, ok := result.(int64)
	if !ok {
		return false, errors.New("unexpected result type from upload limit script")
	}
	return allowed == 1, nil
}
