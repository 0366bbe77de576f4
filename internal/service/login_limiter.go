package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles login attempts per email with a Redis fixed-window
// counter. When Redis is unreachable the limiter fails open; throttling is a
// hardening measure, not a correctness requirement.
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginLimiter builds a limiter. A nil client disables throttling.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether another attempt for the email is permitted.
func (l *LoginLimiter) Allow(ctx context.Context, email string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}

	key := "login_attempts:" + email
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}
	return count <= int64(l.limit)
}
