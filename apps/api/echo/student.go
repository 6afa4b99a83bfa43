package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/student"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, svc *student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.GET("/recent", api.recent)
	sg.GET("/count", api.count)
	sg.GET("/user/:userID", api.retrieveByUser)
	sg.GET("/:id", api.retrieve)
	sg.POST("", api.create, adminOnly)
	sg.PUT("/:id", api.update, adminOnly)
	sg.DELETE("/:id", api.destroy, adminOnly)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, s)
}

func (api *studentApi) query(ctx echo.Context) error {
	var filter student.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	students, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, students)
}

func (api *studentApi) recent(ctx echo.Context) error {
	students, err := api.svc.Recent(ctx.Request().Context(), queryInt(ctx, "limit"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, students)
}

func (api *studentApi) count(ctx echo.Context) error {
	n, err := api.svc.Count(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, Count{Count: n})
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, s)
}

func (api *studentApi) retrieveByUser(ctx echo.Context) error {
	s, err := api.svc.GetByUserID(ctx.Request().Context(), ctx.Param("userID"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	s, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil)
}
