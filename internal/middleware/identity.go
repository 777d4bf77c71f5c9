package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// UserID returns the authenticated user's id, or "anon" when the request
// carries no verified token.
func UserID(c echo.Context) string {
	if s, ok := c.Get(CtxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Email returns the authenticated user's email, or "".
func Email(c echo.Context) string {
	s, _ := c.Get(CtxEmail).(string)
	return s
}
