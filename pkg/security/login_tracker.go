package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // how long failures are counted
	BlockDuration time.Duration
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed logins per email in Redis and blocks the email
// once MaxAttempts is reached. With no Redis client it never blocks.
type LoginTracker struct {
	client *goredis.Client
	config LoginTrackerConfig
	logger *SecurityLogger
}

// withDefaults fills zero fields from DefaultLoginTrackerConfig.
func (c LoginTrackerConfig) withDefaults() LoginTrackerConfig {
	def := DefaultLoginTrackerConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = def.AttemptWindow
	}
	if c.BlockDuration <= 0 {
		c.BlockDuration = def.BlockDuration
	}
	return c
}

// NewLoginTracker uses the defaults for any zero value in config.
func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{client: client, config: config.withDefaults(), logger: logger}
}

const (
	failLoginPrefix    = "fail:login:user:"
	blockedLoginPrefix = "blocked:login:user:"
)

// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns the count after increment.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func trackerKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	if lt.client == nil {
		return false, nil
	}
	n, err := lt.client.Exists(ctx, blockedLoginPrefix+trackerKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailedAttempt counts a failure and reports whether the email is now blocked.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, requestID string) (bool, error) {
	lt.logger.LogLoginFailed(ctx, email, ip, requestID, "invalid_credentials")
	if lt.client == nil {
		return false, nil
	}

	key := trackerKey(email)
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{failLoginPrefix + key}, int(lt.config.AttemptWindow.Seconds())).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment login failures: %w", err)
	}
	count, ok := result.(int64)
	if !ok {
		return false, errors.New("unexpected result type from login counter")
	}

	if int(count) < lt.config.MaxAttempts {
		return false, nil
	}

	if err := lt.client.Set(ctx, blockedLoginPrefix+key, "1", lt.config.BlockDuration).Err(); err != nil {
		return true, fmt.Errorf("failed to set login block: %w", err)
	}
	lt.logger.LogBlockCreated(ctx, email, ip, requestID, int(lt.config.BlockDuration.Minutes()))
	return true, nil
}

func (lt *LoginTracker) ClearAttempts(ctx context.Context, email string) error {
	if lt.client == nil {
		return nil
	}
	if err := lt.client.Del(ctx, failLoginPrefix+trackerKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to clear login failures: %w", err)
	}
	return nil
}
