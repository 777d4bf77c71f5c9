// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
)

// Deps are the collaborators built once in main and shared by all routes.
type Deps struct {
	Auth         *handler.AuthHandler
	Tables       *handler.TableHandler
	Reservations *handler.ReservationHandler

	Log   logrus.FieldLogger
	Redis *redis.Client // nil disables cache and rate limit

	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig

	JWTSecret      string
	UserPoolID     string
	ClientID       string
	AuthRequired   bool
	RequestTimeout time.Duration
}

// Register installs the global middleware, the error handler and every
// route of the service.
func Register(e *echo.Echo, d Deps) {
	e.HTTPErrorHandler = ErrorHandler(e, d.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	if d.RequestTimeout > 0 {
		e.Use(echomw.ContextTimeout(d.RequestTimeout))
	}

	e.GET("/healthz", handler.Health)
	RegisterAuth(e, d)
	RegisterCatalog(e, d)
}

// ErrorHandler answers unmatched routes and unsupported methods with 404
// {message: "Resource not found"} and defers everything else to echo's
// default handler.
func ErrorHandler(e *echo.Echo, log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
			if err := c.JSON(http.StatusNotFound, echo.Map{"message": "Resource not found"}); err != nil {
				log.WithError(err).Warn("write not-found response failed")
			}
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
