package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared across instances, keyed per
// user with a TTL equal to the window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	period time.Duration
}

// NewRedisLimiter connects to Redis and verifies the connection.
func NewRedisLimiter(addr string, limit int, period time.Duration) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLimiter{client: client, limit: limit, period: period}, nil
}

// allowScript increments the window counter and arms the TTL in one atomic
// step. The TTL guard also re-arms counters left without one, so a key can
// never survive with no expiry.
var allowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("TTL", KEYS[1]) < 0 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count
`)

func (l *RedisLimiter) Allow(ctx context.Context, userID uint) (bool, error) {
	return runAllow(ctx, l.client, userID, l.limit, l.period)
}

func runAllow(ctx context.Context, c redis.Scripter, userID uint, limit int, period time.Duration) (bool, error) {
	key := fmt.Sprintf("analysis:ratelimit:%d", userID)
	count, err := allowScript.Run(ctx, c, []string{key}, int(period.Seconds())).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	return count <= int64(limit), nil
}

// Close releases the Redis connection.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
