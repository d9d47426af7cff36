package router

import (
	"github.com/labstack/echo/v4"

	"github.com/chanaka-devx/L-essence/internal/handler"
	"github.com/chanaka-devx/L-essence/internal/middleware"
	"github.com/chanaka-devx/L-essence/internal/model"
)

// RegisterCustomer registers booking routes open to any signed-in user.
// Creating a booking is rate limited per caller.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	authn := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	}
	e.POST("/api/bookings/book", h.Book, append(authn, limit)...)
	e.GET("/api/users/me/bookings", h.ListMine, authn...)
}
