package ratelimit

import (
	"context"
	"time"
)

// WindowCounter increments a counter that expires after window
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisLimiter is a fixed-window limiter shared across replicas
type RedisLimiter struct {
	counter WindowCounter
	maxReqs int
	window  time.Duration
}

func NewRedisLimiter(counter WindowCounter, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{counter: counter, maxReqs: maxRequests, window: window}
}

// Allow implements Limiter
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}
	n, err := l.counter.IncrWindow(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		return false, err
	}
	return n <= int64(l.maxReqs), nil
}
