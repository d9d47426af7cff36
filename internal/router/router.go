package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/chanaka-devx/L-essence/internal/handler"
	"github.com/chanaka-devx/L-essence/internal/middleware"
	"github.com/chanaka-devx/L-essence/internal/model"
)

// RegisterRoutes registers the liveness and readiness probes.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterPublic registers unauthenticated lookups.  cache fronts the
// static timeslot list.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.GET("/timeslots", p.Timeslots, cache)
	g.GET("/tables/available", p.AvailableTables)
}

// RegisterAuth registers signup, login and profile routes.  Signup and
// login are rate limited; profile routes require a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/users")
	g.POST("/signup", a.Signup, limit)
	g.POST("/login", a.Login, limit)

	auth := g.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateMe)
}
