package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
)

// RegisterAuth registers /signup and /signin behind the token-bucket
// limiter.
func RegisterAuth(e *echo.Echo, d Deps) {
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
	e.POST("/signup", d.Auth.Signup, limit)
	e.POST("/signin", d.Auth.Signin, limit)
}
