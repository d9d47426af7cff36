package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/chanaka-devx/L-essence/internal/utils"
)

// Context keys set by JWTAuth.
const (
    CtxUserID = "user_id"
    CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject (as uint64) and role into the request
// context.  The provided secret must match the one used when issuing
// tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            scheme, raw, ok := strings.Cut(auth, " ")
            if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token", "code": "unauthorized"})
            }

            claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token", "code": "unauthorized"})
            }

            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxRole, strings.ToLower(claims.Role))
            return next(c)
        }
    }
}
