package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/class"
)

type classApi struct {
	svc *class.Service
}

func registerClassAPI(g *echo.Group, svc *class.Service) {
	api := classApi{svc: svc}

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.GET("/active", api.queryActive)
	cg.GET("/count", api.count)
	cg.GET("/:id", api.retrieve)
	cg.POST("", api.create, adminOnly)
	cg.PUT("/:id", api.update, adminOnly)
	cg.DELETE("/:id", api.destroy, adminOnly)
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, c)
}

func (api *classApi) query(ctx echo.Context) error {
	var filter class.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	classes, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, classes)
}

// queryActive lists the classes of the active academic year, optionally of one level only.
func (api *classApi) queryActive(ctx echo.Context) error {
	classes, err := api.svc.QueryActive(ctx.Request().Context(), queryInt(ctx, "level"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, classes)
}

func (api *classApi) count(ctx echo.Context) error {
	n, err := api.svc.Count(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, Count{Count: n})
}

func (api *classApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, c)
}

func (api *classApi) update(ctx echo.Context) error {
	var data class.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	c, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, c)
}

func (api *classApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil)
}

type MembershipCheck struct {
	IsMember bool `json:"is_member"`
}

type membershipApi struct {
	svc *class.Service
}

func registerMembershipAPI(g *echo.Group, svc *class.Service) {
	api := membershipApi{svc: svc}

	mg := g.Group("/class-students")
	mg.GET("", api.query)
	mg.GET("/check", api.check)
	mg.POST("", api.create, adminOnly)
	mg.DELETE("/:id", api.destroy, adminOnly)
}

func (api *membershipApi) create(ctx echo.Context) error {
	var data class.NewMembership
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMembership")
	}
	m, err := api.svc.AddMember(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, m)
}

func (api *membershipApi) query(ctx echo.Context) error {
	var filter class.MembershipFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to MembershipFilter")
	}
	members, err := api.svc.QueryMembers(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, members)
}

func (api *membershipApi) check(ctx echo.Context) error {
	studentID, classID := ctx.QueryParam("student_id"), ctx.QueryParam("class_id")
	if studentID == "" || classID == "" {
		return core.NewValidationError(nil,
			core.FieldError{Field: "student_id", Error: "student_id and class_id are required"},
		)
	}
	ok, err := api.svc.IsMember(ctx.Request().Context(), studentID, classID)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, MembershipCheck{IsMember: ok})
}

func (api *membershipApi) destroy(ctx echo.Context) error {
	if err := api.svc.RemoveMember(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, nil)
}
