package http

import (
	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Headers set by the request gateway after authenticating the caller.
const (
	HeaderTenantID     = "X-Tenant-Id"
	HeaderUserID       = "X-User-Id"
	HeaderUserEmail    = "X-User-Email"
	HeaderUsername     = "X-Username"
	HeaderUserRole     = "X-User-Role"
	HeaderConnectionID = "X-Connection-Id"
)

const actorKey = "actor"

// Identity builds the caller's kernel.Actor from the gateway headers. Requests
// without a usable identity are rejected before reaching a handler.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header

			role, err := kernel.ParseRole(h.Get(HeaderUserRole))
			if err != nil {
				return writeError(c, err)
			}

			actor, err := kernel.NewActor(
				h.Get(HeaderTenantID),
				h.Get(HeaderUserID),
				h.Get(HeaderUserEmail),
				h.Get(HeaderUsername),
				role,
			)
			if err != nil {
				return writeError(c, err)
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) kernel.Actor {
	actor, _ := c.Get(actorKey).(kernel.Actor)
	return actor
}
