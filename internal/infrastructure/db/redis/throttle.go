package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultThrottleWindow = time.Minute

// Throttle admits one action per key per window.
// Key format: throttle:<action>:<subject>
type Throttle struct {
	client *redis.Client
	window time.Duration
}

// NewThrottle creates a Throttle wrapping the given Redis client. A
// non-positive window falls back to one minute.
func NewThrottle(client *redis.Client, window time.Duration) *Throttle {
	if window <= 0 {
		window = defaultThrottleWindow
	}
	return &Throttle{client: client, window: window}
}

// Allow reports whether the action may run now and, if so, starts a new
// window for key.
func (t *Throttle) Allow(ctx context.Context, key string) (bool, error) {
	ok, err := t.client.SetNX(ctx, "throttle:"+key, "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("throttle: %w", err)
	}
	return ok, nil
}
