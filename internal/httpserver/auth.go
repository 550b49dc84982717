package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qnrlabs/order_service/internal/logging"
	"github.com/qnrlabs/order_service/internal/middleware"
	"github.com/qnrlabs/order_service/internal/mykafka"
	"github.com/qnrlabs/order_service/internal/service"
	"github.com/qnrlabs/order_service/internal/tokens"
	"github.com/qnrlabs/order_service/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		l.Warn("register_error", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	res, err := h.Svc.Register(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			return echo.NewHTTPError(http.StatusConflict, "username already exists")
		case errors.Is(err, service.ErrInvalidRole):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("register_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	h.publish(c, "user_registered", res.Username)

	return c.JSON(http.StatusCreated, transport.AuthResponse{
		Username: res.Username,
		Role:     res.Role,
		Token:    res.Token,
		Message:  res.Message,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, "user_logged_in", res.Username)

	return c.JSON(http.StatusOK, transport.AuthResponse{
		Username: res.Username,
		Role:     res.Role,
		Token:    res.Token,
		Message:  res.Message,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	token, ok := middleware.BearerToken(c)
	if !ok {
		l.Warn("logout_error", "status", 400, "reason", "invalid authorization header")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid Authorization header")
	}

	username, err := h.Svc.LogOut(ctx, token)
	if err != nil {
		if errors.Is(err, tokens.ErrMalformed) {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed token")
		}
		l.Error("logout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, "user_logged_out", username)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Successfully logged out",
	})
}

func (h *AuthHTTP) publish(c echo.Context, eventType, username string) {
	event := map[string]interface{}{
		"type":     eventType,
		"username": username,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, "user_events", username, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka_publish_failed", "type", eventType, "error", err)
	}
}
