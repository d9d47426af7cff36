package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/chanaka-devx/L-essence/internal/handler"
	"github.com/chanaka-devx/L-essence/internal/middleware"
	"github.com/chanaka-devx/L-essence/internal/model"
)

// RegisterAdmin registers admin-only booking management and dashboard
// routes.  All routes require a valid JWT and the admin role.
func RegisterAdmin(e *echo.Echo, b *handler.BookingHandler, a *handler.AdminHandler, jwtSecret string) {
	adminOnly := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin)}

	bookings := e.Group("/api/bookings", adminOnly...)
	bookings.GET("/all", b.ListAll)
	bookings.PUT("/:booking_id/status", b.UpdateStatus)

	dash := e.Group("/api/admin", adminOnly...)
	dash.GET("/stats", a.GetStats)
	dash.GET("/last-bookings", b.Recent)
}
