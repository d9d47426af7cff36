package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/chanaka-devx/L-essence/internal/service"
)

// MsgServerError is the only text clients see for storage or other
// unexpected failures.
const MsgServerError = "Server error, please try again"

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string   `json:"error"`
	Code      string   `json:"code"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func writeError(c echo.Context, status int, code, msg string, fields []string) error {
	return c.JSON(status, errorBody{
		Error:     msg,
		Code:      code,
		Fields:    fields,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	})
}

// respondError maps the service error taxonomy onto HTTP responses.
// Anything unclassified is logged and answered with a generic 500.
func respondError(c echo.Context, log logrus.FieldLogger, err error) error {
	var ve service.ValidationError
	var te service.TransitionError
	switch {
	case errors.As(err, &ve):
		return writeError(c, http.StatusBadRequest, "validation_error", ve.Error(), ve.Fields)
	case errors.As(err, &te):
		return writeError(c, http.StatusConflict, "invalid_transition", te.Error(), nil)
	case service.IsConflict(err):
		return writeError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case service.IsNotFound(err):
		return writeError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			"route":      c.Path(),
		}).Error("request failed")
		return writeError(c, http.StatusInternalServerError, "internal_error", MsgServerError, nil)
	}
}

func badRequest(c echo.Context, msg string, fields ...string) error {
	return writeError(c, http.StatusBadRequest, "validation_error", msg, fields)
}
