package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ctrl "shareit/app/echoServer/controller"
	us "shareit/service/user"
)

type Controller struct {
	Svc us.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /users
func (h *Controller) Create(c echo.Context) error {
	var req CreateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error: " + err.Error()})
	}

	out, err := h.Svc.Create(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		return ctrl.Fail(c, h.Log, "user create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /users/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req UpdateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error: " + err.Error()})
	}

	out, err := h.Svc.Update(c.Request().Context(), id, us.UpdateUser{Name: req.Name, Email: req.Email})
	if err != nil {
		return ctrl.Fail(c, h.Log, "user update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /users/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	out, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return ctrl.Fail(c, h.Log, "user get", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /users
func (h *Controller) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return ctrl.Fail(c, h.Log, "user list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// DELETE /users/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return ctrl.Fail(c, h.Log, "user delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}
