package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Requests int           // 窗口内允许的请求数
	Window   time.Duration // 滑动窗口长度
	Logger   *zap.Logger
}

// RateLimit 基于IP的滑动窗口限流中间件
func RateLimit(config RateLimitConfig) echo.MiddlewareFunc {
	if config.Requests <= 0 {
		config.Requests = 100
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	var mu sync.Mutex
	windows := make(map[string][]time.Time)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			now := time.Now()
			cutoff := now.Add(-config.Window)

			mu.Lock()
			// 丢弃窗口外的请求记录
			times := windows[ip]
			kept := times[:0]
			for _, t := range times {
				if t.After(cutoff) {
					kept = append(kept, t)
				}
			}

			if len(kept) >= config.Requests {
				windows[ip] = kept
				mu.Unlock()

				if config.Logger != nil {
					config.Logger.Warn("rate limit exceeded",
						zap.String("remote_ip", ip),
						zap.String("path", c.Request().URL.Path))
				}

				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error": "请求过于频繁，请稍后重试",
				})
			}

			windows[ip] = append(kept, now)
			mu.Unlock()

			return next(c)
		}
	}
}
