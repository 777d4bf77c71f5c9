package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/utils"
)

// JWTAuth verifies the Bearer ID token on each request: HS256 signature,
// expiry, issuer (the user pool) and audience (the app client). On success
// the subject and email claims are stored under CtxUserID and CtxEmail.
// Failures get 401 {message: "Unauthorized"}.
func JWTAuth(secret, issuer, audience string, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return unauthorized(c)
			}
			claims, err := utils.ParseIDToken(strings.TrimSpace(raw), secret, issuer, audience)
			if err != nil {
				log.WithError(err).WithField("path", c.Path()).Debug("token rejected")
				return unauthorized(c)
			}
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxEmail, claims.Email)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
}
