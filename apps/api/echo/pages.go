package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	homePath      = "/"
	loginPath     = "/login"
	registerPath  = "/register"
	dashboardPath = "/dashboard"
)

// guardRedirect returns where a request for path must be sent to, or "" when it may go through.
func guardRedirect(path string, authed bool) string {
	switch {
	case path == homePath || path == "":
		if authed {
			return dashboardPath
		}
		return loginPath
	case path == dashboardPath || strings.HasPrefix(path, dashboardPath+"/"):
		if !authed {
			return loginPath
		}
	case path == loginPath || path == registerPath:
		if authed {
			return dashboardPath
		}
	}
	return ""
}

func guardMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		_, authed := getContextIdentity(ctx)
		if to := guardRedirect(ctx.Request().URL.Path, authed); to != "" {
			return ctx.Redirect(http.StatusFound, to)
		}
		return next(ctx)
	}
}

type page struct {
	Page string `json:"page"`
}

// registerPages mounts the browser-facing routes. The front-end renders them; the API only guards them.
func registerPages(e *echo.Echo, svc Services) {
	dash := dashboardApi{svc: svc}

	e.GET(homePath, func(ctx echo.Context) error { return ctx.NoContent(http.StatusNoContent) }, guardMiddleware)
	e.GET(loginPath, func(ctx echo.Context) error { return respond(ctx, http.StatusOK, page{Page: "login"}) }, guardMiddleware)
	e.GET(registerPath, func(ctx echo.Context) error { return respond(ctx, http.StatusOK, page{Page: "register"}) }, guardMiddleware)
	e.GET(dashboardPath, dash.retrieve, guardMiddleware)
	e.GET(dashboardPath+"/*", dash.retrieve, guardMiddleware)
}
