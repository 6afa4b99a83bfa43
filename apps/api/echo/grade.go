package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/grade"
)

type gradeApi struct {
	svc *grade.Service
}

func registerGradeAPI(g *echo.Group, svc *grade.Service) {
	api := gradeApi{svc: svc}

	gg := g.Group("/grades")
	gg.GET("", api.query)
	gg.GET("/class", api.queryClass)
	gg.GET("/:id", api.retrieve)
	gg.POST("", api.create, adminOrTeacher)
	gg.PUT("/:id", api.update, adminOrTeacher)
	gg.DELETE("/:id", api.destroy, adminOrTeacher)
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	g, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, g)
}

func (api *gradeApi) query(ctx echo.Context) error {
	var filter grade.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	grades, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, grades)
}

// queryClass returns the grades of a class in one subject, semester and academic year.
func (api *gradeApi) queryClass(ctx echo.Context) error {
	params := map[string]string{
		"class_id":         ctx.QueryParam("class_id"),
		"subject_id":       ctx.QueryParam("subject_id"),
		"semester":         ctx.QueryParam("semester"),
		"academic_year_id": ctx.QueryParam("academic_year_id"),
	}
	var flds []core.FieldError
	for name, val := range params {
		if val == "" {
			flds = append(flds, core.FieldError{Field: name, Error: name + " is a required field"})
		}
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}

	grades, err := api.svc.QueryClass(
		ctx.Request().Context(),
		params["class_id"], params["subject_id"], grade.Semester(params["semester"]), params["academic_year_id"],
	)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, grades)
}

func (api *gradeApi) retrieve(ctx echo.Context) error {
	g, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, g)
}

func (api *gradeApi) update(ctx echo.Context) error {
	var data grade.UpdateGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	g, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, g)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil)
}
