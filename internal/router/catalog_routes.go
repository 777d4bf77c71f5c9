package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
)

// RegisterCatalog registers /tables and /reservations. With AuthRequired
// they need a valid ID token. GET responses go through the Redis cache,
// which POSTs on the same collection invalidate.
func RegisterCatalog(e *echo.Echo, d Deps) {
	var mws []echo.MiddlewareFunc
	if d.AuthRequired {
		mws = append(mws, middleware.JWTAuth(d.JWTSecret, d.UserPoolID, d.ClientID, d.Log))
	}
	mws = append(mws, middleware.NewCatalogCache(d.Cache, d.Redis, d.Log))

	// Per-route middleware rather than a Group: a group with middleware
	// also catches unmatched paths, which would answer 401 instead of 404.
	e.GET("/tables", d.Tables.List, mws...)
	e.POST("/tables", d.Tables.Create, mws...)
	e.GET("/tables/:tableId", d.Tables.Get, mws...)

	e.GET("/reservations", d.Reservations.List, mws...)
	e.POST("/reservations", d.Reservations.Create, mws...)
}
