package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

const loginFailurePrefix = "odyssey-auth:login:fail:"

// LimiterConfig tunes the failed-login limiter.
type LimiterConfig struct {
	MaxFailures int
	Lockout     time.Duration
}

// AttemptLimiter counts failed logins per email in Redis. A nil limiter
// allows everything.
type AttemptLimiter struct {
	client redis.UniversalClient
	cfg    LimiterConfig
}

// NewAttemptLimiter returns nil when client is nil or the config disables
// limiting.
func NewAttemptLimiter(client redis.UniversalClient, cfg LimiterConfig) *AttemptLimiter {
	if client == nil || cfg.MaxFailures <= 0 || cfg.Lockout <= 0 {
		return nil
	}
	return &AttemptLimiter{client: client, cfg: cfg}
}

// Check returns shared.ErrRateLimited once MaxFailures failures were
// recorded inside the lockout window.
func (l *AttemptLimiter) Check(ctx context.Context, email string) error {
	if l == nil {
		return nil
	}
	count, err := l.client.Get(ctx, loginFailurePrefix+email).Int()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("auth: limiter check: %w", err)
	}
	if count >= l.cfg.MaxFailures {
		return shared.ErrRateLimited
	}
	return nil
}

// RecordFailure bumps the counter, starting the lockout window on the first
// failure.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, email string) error {
	if l == nil {
		return nil
	}
	key := loginFailurePrefix + email
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("auth: limiter incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cfg.Lockout).Err(); err != nil {
			return fmt.Errorf("auth: limiter expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *AttemptLimiter) Reset(ctx context.Context, email string) error {
	if l == nil {
		return nil
	}
	if err := l.client.Del(ctx, loginFailurePrefix+email).Err(); err != nil {
		return fmt.Errorf("auth: limiter reset: %w", err)
	}
	return nil
}
