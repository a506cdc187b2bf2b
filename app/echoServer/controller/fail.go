// Package controller holds the error-to-status mapping shared by every
// resource controller.
package controller

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"shareit/util/apperr"
)

// Fail maps a service error onto the HTTP response. Rule violations keep
// their message; everything else is an opaque internal error.
func Fail(c echo.Context, log *slog.Logger, op string, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case apperr.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case apperr.KindForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case apperr.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// UserID returns the caller identity placed in context by the Identity
// middleware.
func UserID(c echo.Context) int64 {
	id, _ := c.Get("user_id").(int64)
	return id
}
