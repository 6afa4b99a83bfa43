package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/teacher"
)

// TeacherDetail is a Teacher along with the classes they lead and the lessons they give.
type TeacherDetail struct {
	teacher.Teacher
	HomeroomClasses []class.Class    `json:"homeroom_classes"`
	Schedules       []schedule.Entry `json:"schedules"`
}

type Count struct {
	Count int `json:"count"`
}

type teacherApi struct {
	svc       *teacher.Service
	classes   *class.Service
	schedules *schedule.Service
}

func registerTeacherAPI(g *echo.Group, svc *teacher.Service, classes *class.Service, schedules *schedule.Service) {
	api := teacherApi{svc: svc, classes: classes, schedules: schedules}

	tg := g.Group("/teachers")
	tg.GET("", api.query)
	tg.GET("/recent", api.recent)
	tg.GET("/count", api.count)
	tg.GET("/user/:userID", api.retrieveByUser)
	tg.GET("/:id", api.retrieve)
	tg.POST("", api.create, adminOnly)
	tg.PUT("/:id", api.update, adminOnly)
	tg.DELETE("/:id", api.destroy, adminOnly)
}

// queryInt returns the int query param called name, 0 when absent or malformed.
func queryInt(ctx echo.Context, name string) int {
	n, _ := strconv.Atoi(ctx.QueryParam(name))
	return n
}

func (api *teacherApi) detail(ctx echo.Context, t teacher.Teacher) (TeacherDetail, error) {
	reqCtx := ctx.Request().Context()
	classes, err := api.classes.Query(reqCtx, class.QueryFilter{HomeroomTeacherID: t.ID})
	if err != nil {
		return TeacherDetail{}, err
	}
	entries, err := api.schedules.Query(reqCtx, schedule.QueryFilter{TeacherID: t.ID})
	if err != nil {
		return TeacherDetail{}, err
	}
	return TeacherDetail{Teacher: t, HomeroomClasses: classes, Schedules: entries}, nil
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, t)
}

func (api *teacherApi) query(ctx echo.Context) error {
	teachers, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, teachers)
}

func (api *teacherApi) recent(ctx echo.Context) error {
	teachers, err := api.svc.Recent(ctx.Request().Context(), queryInt(ctx, "limit"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, teachers)
}

func (api *teacherApi) count(ctx echo.Context) error {
	n, err := api.svc.Count(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, Count{Count: n})
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	detail, err := api.detail(ctx, t)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, detail)
}

func (api *teacherApi) retrieveByUser(ctx echo.Context) error {
	t, err := api.svc.GetByUserID(ctx.Request().Context(), ctx.Param("userID"))
	if err != nil {
		return err
	}
	detail, err := api.detail(ctx, t)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, detail)
}

func (api *teacherApi) update(ctx echo.Context) error {
	var data teacher.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	t, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, t)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil)
}
