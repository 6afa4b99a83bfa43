package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/academicyear"
)

type academicYearApi struct {
	svc *academicyear.Service
}

func registerAcademicYearAPI(g *echo.Group, svc *academicyear.Service) {
	api := academicYearApi{svc: svc}

	yg := g.Group("/academic-years")
	yg.GET("", api.query)
	yg.GET("/active", api.retrieveActive)
	yg.GET("/:id", api.retrieve)
	yg.POST("", api.create, adminOnly)
	yg.PUT("/:id", api.update, adminOnly)
	yg.POST("/:id/activate", api.activate, adminOnly)
	yg.DELETE("/:id", api.destroy, adminOnly)
}

func (api *academicYearApi) create(ctx echo.Context) error {
	var data academicyear.NewYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewYear")
	}
	y, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, y)
}

func (api *academicYearApi) query(ctx echo.Context) error {
	years, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, years)
}

func (api *academicYearApi) retrieve(ctx echo.Context) error {
	y, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, y)
}

func (api *academicYearApi) retrieveActive(ctx echo.Context) error {
	y, err := api.svc.GetActive(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, y)
}

func (api *academicYearApi) update(ctx echo.Context) error {
	var data academicyear.UpdateYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateYear")
	}
	y, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, y)
}

func (api *academicYearApi) activate(ctx echo.Context) error {
	y, err := api.svc.SetActive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, y)
}

func (api *academicYearApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil)
}
