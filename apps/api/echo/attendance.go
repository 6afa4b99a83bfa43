package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendances")
	ag.GET("", api.query)
	ag.GET("/recent", api.recent)
	ag.GET("/:id", api.retrieve)
	ag.POST("", api.create, adminOrTeacher)
	ag.DELETE("/:id", api.destroy, adminOrTeacher)
}

func (api *attendanceApi) create(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	r, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, r)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	var filter attendance.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	records, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, records)
}

func (api *attendanceApi) recent(ctx echo.Context) error {
	records, err := api.svc.Recent(ctx.Request().Context(), queryInt(ctx, "limit"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, records)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	r, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, r)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil)
}
