package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/user"
)

// roleMiddleware only lets through identities holding one of roles.
func roleMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, ok := getContextIdentity(ctx)
			if !ok {
				return errUnauthorized
			}
			for _, role := range roles {
				if id.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

var (
	adminOnly      = roleMiddleware(user.RoleAdmin)
	adminOrTeacher = roleMiddleware(user.RoleAdmin, user.RoleTeacher)
)
