package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:ip:"

// fixedWindowScript counts one hit and makes sure the counter expires. A counter left
// without a TTL (PTTL -1) gets one on its next hit, so a window can never become permanent.
var fixedWindowScript = redis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if n == 1 or redis.call('PTTL', KEYS[1]) < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return n
`)

// FixedWindow counts requests per caller in windows that start at the caller's first hit.
type FixedWindow struct {
	c      *Cache
	max    int64
	window time.Duration
}

func (c *Cache) FixedWindow(max int, window time.Duration) *FixedWindow {
	return &FixedWindow{c: c, max: int64(max), window: window}
}

// Allow increments the caller's counter. Redis errors fail open.
func (f *FixedWindow) Allow(ctx context.Context, caller string) bool {
	n, err := fixedWindowScript.Run(ctx, f.c.RDB, []string{rateLimitPrefix + hashKey(caller)}, f.window.Milliseconds()).Int64()
	if err != nil {
		return true
	}
	return n <= f.max
}

// hashKey keeps raw client addresses out of Redis.
func hashKey(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:8])
}
