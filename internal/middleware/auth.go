package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qnrlabs/order_service/internal/models"
	"github.com/qnrlabs/order_service/internal/repo"
	"github.com/qnrlabs/order_service/internal/service"
	"github.com/qnrlabs/order_service/internal/tokens"
)

type Auth struct {
	Codec     *tokens.Codec
	Blacklist *service.TokenBlacklistService
	Repo      *repo.GormRepo
}

func NewAuth(codec *tokens.Codec, blacklist *service.TokenBlacklistService, r *repo.GormRepo) *Auth {
	return &Auth{Codec: codec, Blacklist: blacklist, Repo: r}
}

// BearerToken strips the scheme prefix from the Authorization header.
func BearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// RequireAuth admits a request only when the token carries a valid
// signature, has not expired, and is not blacklisted — in that order, so a
// forged or stale token is rejected before the blacklist is ever consulted.
// The resolved user is stored in the echo context for handlers.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := BearerToken(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := m.Codec.ClaimsFromToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		ctx := c.Request().Context()

		blacklisted, err := m.Blacklist.IsTokenBlacklisted(ctx, token)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		if blacklisted {
			return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
		}

		user, err := m.Repo.GetUserByUsername(ctx, claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown subject")
		}

		c.Set("user", user)
		c.Set("username", user.Username)
		c.Set("role", user.Role)

		return next(c)
	}
}

// CallerFromContext returns the user resolved by RequireAuth.
func CallerFromContext(c echo.Context) (*models.User, bool) {
	user, ok := c.Get("user").(*models.User)
	return user, ok
}
