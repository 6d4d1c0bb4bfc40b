package webhook

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RequireHeaders rejects requests that do not carry every configured header
// with its exact value.
func RequireHeaders(headers map[string]string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for k, want := range headers {
				got := c.Request().Header.Get(k)
				if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid webhook credentials"})
				}
			}
			return next(c)
		}
	}
}

// RateLimitConfig configures a Redis fixed-window limiter keyed by client IP.
type RateLimitConfig struct {
	Redis     *redis.Client
	RPS       int
	KeyPrefix string
	Window    time.Duration
}

// RateLimit allows everything when Redis is missing, RPS is not positive or
// Redis fails.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "omni:rl:"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.RPS <= 0 || cfg.Redis == nil {
				return next(c)
			}

			now := time.Now()
			window := now.UnixNano() / int64(cfg.Window)
			key := cfg.KeyPrefix + c.RealIP() + ":" + strconv.FormatInt(window, 10)

			ctx := c.Request().Context()
			pipe := cfg.Redis.Pipeline()
			cnt := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, cfg.Window*2)
			if _, err := pipe.Exec(ctx); err != nil {
				return next(c)
			}

			if cnt.Val() > int64(cfg.RPS) {
				remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
				secs := int((remain + time.Second - 1) / time.Second)
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
			}
			return next(c)
		}
	}
}
