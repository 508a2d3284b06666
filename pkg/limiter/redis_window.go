package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowLimiter 基于 Redis 的固定窗口计数器，多实例部署时共享额度
// Used for guest endpoints so that token guessing is bounded per client across all replicas.
type WindowLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewWindowLimiter 连接 Redis 并检查连通性
func NewWindowLimiter(redisURL string, limit int64, window time.Duration) (*WindowLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewWindowLimiterWithClient(client, limit, window), nil
}

func NewWindowLimiterWithClient(client *redis.Client, limit int64, window time.Duration) *WindowLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &WindowLimiter{client: client, prefix: "share:guest:", limit: limit, window: window}
}

// Allow 计数 +1；超过 limit 返回 false。第一次计数时设置窗口过期时间
func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", k, err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", k, err)
		}
	}
	return n <= l.limit, nil
}

func (l *WindowLimiter) Close() error {
	return l.client.Close()
}
