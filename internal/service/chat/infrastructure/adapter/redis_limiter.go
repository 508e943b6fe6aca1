// internal/service/chat/infrastructure/adapter/redis_limiter.go
package adapter

import (
	"context"
	"time"

	"github.com/klausterra/alpha-se-1/internal/pkg/redis"
)

const rateScriptName = "chat_rate_limit"

// KEYS[1] counter, ARGV[1] window in ms, ARGV[2] limit. Returns 1 when allowed.
const rateScript = `
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
if n > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisRateLimiter is a fixed-window limiter evaluated atomically in Redis.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) (*RedisRateLimiter, error) {
	if err := client.LoadScriptFromContent(rateScriptName, rateScript); err != nil {
		return nil, err
	}
	return &RedisRateLimiter{client: client, limit: limit, window: window}, nil
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	res, err := l.client.RunScript(ctx, rateScriptName, []string{"rl:chat:" + key}, l.window.Milliseconds(), l.limit)
	if err != nil {
		return false, err
	}
	allowed, _ := res.(int64)
	return allowed == 1, nil
}
