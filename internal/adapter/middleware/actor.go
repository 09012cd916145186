package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/pkg/logger"
)

const (
	HeaderUserID = "X-User-Id"

	actorKey = "actor"
)

type UserResolver interface {
	Resolve(ctx context.Context, id uint64) (*identity.User, error)
}

// Actor resolves X-User-Id to the calling user and stores it on the context.
// Missing, malformed or unknown ids are rejected with 401.
func Actor(users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderUserID})
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid " + HeaderUserID})
			}
			ctx := c.Request().Context()
			usr, err := users.Resolve(ctx, id)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
				}
				logger.FromContext(ctx).Errorw("resolve actor", "user_id", id, "error", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
			a := identity.ActorOf(usr)
			SetActor(c, a)
			l := logger.FromContext(ctx).With("actor_id", a.UserID, "role", a.Role)
			c.SetRequest(c.Request().WithContext(logger.WithLogger(ctx, l)))
			return next(c)
		}
	}
}

func SetActor(c echo.Context, a identity.Actor) { c.Set(actorKey, a) }

func ActorFrom(c echo.Context) (identity.Actor, bool) {
	a, ok := c.Get(actorKey).(identity.Actor)
	return a, ok
}
