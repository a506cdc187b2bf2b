package item

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ctrl "shareit/app/echoServer/controller"
	is "shareit/service/item"
)

type Controller struct {
	Svc is.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /items
func (h *Controller) Create(c echo.Context) error {
	var req CreateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation error: " + err.Error()})
	}
	uid := ctrl.UserID(c)

	out, err := h.Svc.Create(c.Request().Context(), uid, is.CreateItem{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		return ctrl.Fail(c, h.Log, "item create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /items/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req UpdateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	uid := ctrl.UserID(c)

	out, err := h.Svc.Update(c.Request().Context(), uid, id, is.UpdateItem{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		return ctrl.Fail(c, h.Log, "item update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /items/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid := ctrl.UserID(c)

	out, err := h.Svc.GetByID(c.Request().Context(), uid, id)
	if err != nil {
		return ctrl.Fail(c, h.Log, "item get", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /items
func (h *Controller) ListOwn(c echo.Context) error {
	uid := ctrl.UserID(c)

	out, err := h.Svc.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return ctrl.Fail(c, h.Log, "item list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// DELETE /items/:id
func (h *Controller) Remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid := ctrl.UserID(c)

	if err := h.Svc.Remove(c.Request().Context(), uid, id); err != nil {
		return ctrl.Fail(c, h.Log, "item remove", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /items/search?text=
func (h *Controller) Search(c echo.Context) error {
	out, err := h.Svc.Search(c.Request().Context(), c.QueryParam("text"))
	if err != nil {
		return ctrl.Fail(c, h.Log, "item search", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// POST /items/:id/comment
func (h *Controller) Comment(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req CommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	uid := ctrl.UserID(c)

	out, err := h.Svc.SaveComment(c.Request().Context(), uid, id, req.Text)
	if err != nil {
		return ctrl.Fail(c, h.Log, "item comment", err)
	}
	return c.JSON(http.StatusCreated, out)
}
