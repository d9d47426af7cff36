package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/model"
)

// StatsService is implemented by service.StatsService.
type StatsService interface {
	Stats(ctx context.Context) (model.Stats, error)
}

// AdminHandler serves the dashboard counters.
type AdminHandler struct {
	Stats StatsService
	Log   logrus.FieldLogger
}

func NewAdminHandler(s StatsService, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{Stats: s, Log: log}
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Stats.Stats(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, st)
}
