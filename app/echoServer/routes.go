package echoServer

import (
	"shareit/app/echoServer/controller/booking"
	"shareit/app/echoServer/controller/item"
	"shareit/app/echoServer/controller/request"
	"shareit/app/echoServer/controller/user"

	"github.com/labstack/echo/v4"
)

type C struct {
	User    *user.Controller
	Item    *item.Controller
	Booking *booking.Controller
	Request *request.Controller
}

func Register(e *echo.Echo, c C) {
	// Public: no caller identity involved.
	e.POST("/users", c.User.Create)
	e.GET("/users", c.User.List)
	e.GET("/users/:id", c.User.GetByID)
	e.PATCH("/users/:id", c.User.Update)
	e.DELETE("/users/:id", c.User.Delete)

	e.GET("/items/search", c.Item.Search)

	// Identified: caller supplies the identity header.
	id := e.Group("", Identity())

	id.POST("/items", c.Item.Create)
	id.GET("/items", c.Item.ListOwn)
	id.GET("/items/:id", c.Item.GetByID)
	id.PATCH("/items/:id", c.Item.Update)
	id.DELETE("/items/:id", c.Item.Remove)
	id.POST("/items/:id/comment", c.Item.Comment)

	id.POST("/bookings", c.Booking.Create)
	id.GET("/bookings", c.Booking.ListByBooker)
	id.GET("/bookings/owner", c.Booking.ListByOwner)
	id.GET("/bookings/:id", c.Booking.GetByID)
	id.PATCH("/bookings/:id", c.Booking.UpdateStatus)

	id.POST("/requests", c.Request.Create)
	id.GET("/requests", c.Request.ListOwn)
	id.GET("/requests/all", c.Request.ListOthers)
	id.GET("/requests/:id", c.Request.GetByID)
}
