package echoapi

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

var errTooManyLogins = echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")

// rateLimitMiddleware throttles an endpoint per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

func rateLimitMiddleware(limit rate.Limit, burst int) echo.MiddlewareFunc {
	l := newIPLimiter(limit, burst)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !l.get(ctx.RealIP()).Allow() {
				return errTooManyLogins
			}
			return next(ctx)
		}
	}
}
