package booking

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ctrl "shareit/app/echoServer/controller"
	bs "shareit/service/booking"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error: " + err.Error()})
	}
	uid := ctrl.UserID(c)

	out, err := h.Svc.Create(c.Request().Context(), uid, req.ItemID, req.Start, req.End)
	if err != nil {
		return ctrl.Fail(c, h.Log, "booking create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /bookings/:id?approved={bool}
func (h *Controller) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	approved, err := strconv.ParseBool(c.QueryParam("approved"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid approved parameter"})
	}
	uid := ctrl.UserID(c)

	out, err := h.Svc.UpdateStatus(c.Request().Context(), uid, id, approved)
	if err != nil {
		return ctrl.Fail(c, h.Log, "booking update status", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /bookings/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid := ctrl.UserID(c)

	out, err := h.Svc.GetByID(c.Request().Context(), uid, id)
	if err != nil {
		return ctrl.Fail(c, h.Log, "booking get", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /bookings?state=
func (h *Controller) ListByBooker(c echo.Context) error {
	uid := ctrl.UserID(c)

	out, err := h.Svc.ListByBooker(c.Request().Context(), uid, c.QueryParam("state"))
	if err != nil {
		return ctrl.Fail(c, h.Log, "booking list by booker", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /bookings/owner?state=
func (h *Controller) ListByOwner(c echo.Context) error {
	uid := ctrl.UserID(c)

	out, err := h.Svc.ListByOwner(c.Request().Context(), uid, c.QueryParam("state"))
	if err != nil {
		return ctrl.Fail(c, h.Log, "booking list by owner", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}
