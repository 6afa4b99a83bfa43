package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/subject"
)

// SubjectDetail is a Subject along with where it is taught.
type SubjectDetail struct {
	subject.Subject
	Schedules []schedule.Entry `json:"schedules"`
}

type subjectApi struct {
	svc       *subject.Service
	schedules *schedule.Service
}

func registerSubjectAPI(g *echo.Group, svc *subject.Service, schedules *schedule.Service) {
	api := subjectApi{svc: svc, schedules: schedules}

	sg := g.Group("/subjects")
	sg.GET("", api.query)
	sg.GET("/code/:code", api.retrieveByCode)
	sg.GET("/:id", api.retrieve)
	sg.POST("", api.create, adminOnly)
	sg.PUT("/:id", api.update, adminOnly)
	sg.DELETE("/:id", api.destroy, adminOnly)
}

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	sub, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, sub)
}

func (api *subjectApi) query(ctx echo.Context) error {
	subjects, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, subjects)
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	sub, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	entries, err := api.schedules.Query(ctx.Request().Context(), schedule.QueryFilter{SubjectID: sub.ID})
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, SubjectDetail{Subject: sub, Schedules: entries})
}

func (api *subjectApi) retrieveByCode(ctx echo.Context) error {
	sub, err := api.svc.GetByCode(ctx.Request().Context(), ctx.Param("code"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, sub)
}

func (api *subjectApi) update(ctx echo.Context) error {
	var data subject.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	sub, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, sub)
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil)
}
