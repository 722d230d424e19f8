package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rixeldev/studio-api/config"
)

// Wrong-PIN guessing protection. All checks fail open: when Redis is down
// the gallery stays reachable and only the throttle is lost.

func pinKey(parts ...string) string {
	key := "pin"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// PinAttemptAllowed reports whether the IP is currently allowed to try a PIN.
func PinAttemptAllowed(ip string) bool {
	cfg := config.Get()
	if cfg.PinFailedMaxPerIPPerHour <= 0 {
		return true
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	banned, err := cli.Exists(ctx, pinKey("ban", ip)).Result()
	if err == nil && banned > 0 {
		return false
	}

	n, err := cli.Get(ctx, pinKey("fail", ip, time.Now().Format("2006010215"))).Int()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		return true // fail-open
	}
	return n < cfg.PinFailedMaxPerIPPerHour
}

// PinAttemptFailed records a wrong PIN guess and applies a temporary ban once
// the hourly limit is exceeded.
func PinAttemptFailed(ip string) {
	cfg := config.Get()
	if cfg.PinFailedMaxPerIPPerHour <= 0 {
		return
	}
	cli := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	key := pinKey("fail", ip, time.Now().Format("2006010215"))
	n, err := cli.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if n == 1 {
		cli.Expire(ctx, key, time.Hour)
	}
	if int(n) >= cfg.PinFailedMaxPerIPPerHour {
		cli.Set(ctx, pinKey("ban", ip), "1", time.Duration(cfg.PinTempBanMinutes)*time.Minute)
	}
}
