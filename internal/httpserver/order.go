package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qnrlabs/order_service/internal/logging"
	"github.com/qnrlabs/order_service/internal/middleware"
	"github.com/qnrlabs/order_service/internal/models"
	"github.com/qnrlabs/order_service/internal/mykafka"
	"github.com/qnrlabs/order_service/internal/service"
	"github.com/qnrlabs/order_service/internal/transport"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHTTP) caller(c echo.Context) (*models.User, error) {
	user, ok := middleware.CallerFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return user, nil
}

func (h *OrderHTTP) orderID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return uint(id), nil
}

func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, _ = strconv.Atoi(c.QueryParam("size"))
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_create")

	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, req, caller)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_order_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, "order_created", caller.Username, order.ID)

	return c.JSON(http.StatusCreated, transport.OrderToDTO(order))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	id, err := h.orderID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, id, caller)
	if err != nil {
		return h.mapError(c, "order_get", err)
	}
	return c.JSON(http.StatusOK, transport.OrderToDTO(order))
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_update")

	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	id, err := h.orderID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateOrder(ctx, id, req, caller)
	if err != nil {
		return h.mapError(c, "order_update", err)
	}

	h.publish(c, "order_updated", caller.Username, order.ID)

	return c.JSON(http.StatusOK, transport.OrderToDTO(order))
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	caller, err := h.caller(c)
	if err != nil {
		return err
	}
	id, err := h.orderID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteOrder(ctx, id, caller); err != nil {
		return h.mapError(c, "order_delete", err)
	}

	h.publish(c, "order_deleted", caller.Username, id)

	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	page, size := pageParams(c)
	desc := !strings.EqualFold(c.QueryParam("direction"), "asc")

	orders, total, err := h.Svc.ListOrders(ctx, caller, desc, page, size)
	if err != nil {
		return h.mapError(c, "order_list", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(orders, total, page, size))
}

func (h *OrderHTTP) ListOrdersByStatus(c echo.Context) error {
	ctx := c.Request().Context()

	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	status := c.Param("status")
	page, size := pageParams(c)

	orders, total, err := h.Svc.ListOrdersByStatus(ctx, caller, status, page, size)
	if err != nil {
		return h.mapError(c, "order_list_status", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(orders, total, page, size))
}

func (h *OrderHTTP) SearchOrders(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.caller(c); err != nil {
		return err
	}

	query := c.QueryParam("query")
	page, size := pageParams(c)

	items, total, err := h.Svc.SearchOrders(ctx, query, page, size)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return h.mapError(c, "order_search", err)
	}
	return c.JSON(http.StatusOK, transport.Page{Items: items, Total: total, Page: page, Size: size})
}

func (h *OrderHTTP) mapError(c echo.Context, handler string, err error) error {
	l := logging.FromContext(c.Request().Context()).With("handler", handler)

	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrValidation):
		l.Warn(handler+"_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		l.Error(handler+"_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *OrderHTTP) publish(c echo.Context, eventType, username string, orderID uint) {
	event := map[string]interface{}{
		"type":     eventType,
		"order_id": orderID,
		"username": username,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, "order_events", strconv.FormatUint(uint64(orderID), 10), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "type", eventType, "error", err)
	}
}
