package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qnrlabs/order_service/internal/middleware"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	OrderHandler *OrderHTTP
	AuthMW       *middleware.Auth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/api/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.LogOut)

	orders := e.Group("/api/orders", d.AuthMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/search", d.OrderHandler.SearchOrders)
	orders.GET("/status/:status", d.OrderHandler.ListOrdersByStatus)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)
}
