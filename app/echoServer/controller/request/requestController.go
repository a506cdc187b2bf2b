package request

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ctrl "shareit/app/echoServer/controller"
	rs "shareit/service/request"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /requests
func (h *Controller) Create(c echo.Context) error {
	var req CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error: " + err.Error()})
	}
	uid := ctrl.UserID(c)

	out, err := h.Svc.Create(c.Request().Context(), uid, req.Description)
	if err != nil {
		return ctrl.Fail(c, h.Log, "request create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /requests
func (h *Controller) ListOwn(c echo.Context) error {
	uid := ctrl.UserID(c)

	out, err := h.Svc.ListOwn(c.Request().Context(), uid)
	if err != nil {
		return ctrl.Fail(c, h.Log, "request list own", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /requests/all
func (h *Controller) ListOthers(c echo.Context) error {
	uid := ctrl.UserID(c)

	out, err := h.Svc.ListOthers(c.Request().Context(), uid)
	if err != nil {
		return ctrl.Fail(c, h.Log, "request list others", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /requests/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	out, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return ctrl.Fail(c, h.Log, "request get", err)
	}
	return c.JSON(http.StatusOK, out)
}
