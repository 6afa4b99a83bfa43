package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

var (
	errUnauthorized    = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden   = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errRoleNotDetected = echo.NewHTTPError(http.StatusForbidden, "role not detected")
)

var kindStatus = map[core.ErrorKind]int{
	core.KindNotFound:        http.StatusNotFound,
	core.KindConflict:        http.StatusConflict,
	core.KindPrecondition:    http.StatusUnprocessableEntity,
	core.KindDependency:      http.StatusConflict,
	core.KindInvalid:         http.StatusBadRequest,
	core.KindUnauthenticated: http.StatusUnauthorized,
	core.KindUnexpected:      http.StatusInternalServerError,
}

// statusOf returns the HTTP status answering an error of kind.
func statusOf(kind core.ErrorKind) int {
	if code, ok := kindStatus[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var res core.Result

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
			} else {
				if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
					httpErr = herr
				}
				code = httpErr.Code
			}
			res = core.Result{Error: fmt.Sprint(httpErr.Message)}
		} else {
			code = statusOf(core.KindOf(err))
			res = core.Fail(err, translator)

			// services already logged what they caught
			if code == http.StatusInternalServerError && !errors.Is(err, core.ErrUnexpected) {
				var usr user.User
				if id, ok := getContextIdentity(ctx); ok {
					usr.ID = id.UserID
					usr.Username = id.Username
					usr.Role = id.Role
				}
				msg := http.StatusText(http.StatusInternalServerError)
				logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			res.Error = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
