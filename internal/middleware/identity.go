package middleware

// identity.go holds helpers shared by handlers and middleware for reading
// the authenticated caller out of the echo context.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/chanaka-devx/L-essence/internal/utils"
)

// CurrentUserID returns the user id stored by JWTAuth.
func CurrentUserID(c echo.Context) (uint64, bool) {
    id, ok := utils.ToUint64(c.Get(CtxUserID))
    if !ok || id == 0 {
        return 0, false
    }
    return id, true
}

// CurrentRole returns the role stored by JWTAuth, or "" for guests.
func CurrentRole(c echo.Context) string {
    role, _ := c.Get(CtxRole).(string)
    return role
}

// userKey identifies the caller for rate limiting; "anon" when no user is
// authenticated.
func userKey(c echo.Context) string {
    if id, ok := CurrentUserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
