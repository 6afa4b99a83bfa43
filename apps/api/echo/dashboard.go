package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

type (
	AdminDashboard struct {
		Role     user.Role         `json:"role"`
		Counts   DashboardCounts   `json:"counts"`
		Teachers []teacher.Teacher `json:"teachers"`
		Subjects []subject.Subject `json:"subjects"`
	}

	DashboardCounts struct {
		Students int `json:"students"`
		Teachers int `json:"teachers"`
		Classes  int `json:"classes"`
	}

	TeacherDashboard struct {
		Role            user.Role        `json:"role"`
		Profile         teacher.Teacher  `json:"profile"`
		HomeroomClasses []class.Class    `json:"homeroom_classes"`
		Schedules       []schedule.Entry `json:"schedules"`
	}

	StudentDashboard struct {
		Role        user.Role          `json:"role"`
		Profile     student.Student    `json:"profile"`
		Memberships []class.Membership `json:"memberships"`
		Grades      []grade.Grade      `json:"grades"`
	}
)

type dashboardApi struct {
	svc Services
}

func registerDashboardAPI(g *echo.Group, svc Services) {
	api := dashboardApi{svc: svc}
	g.GET("/dashboard", api.retrieve)
}

// retrieve answers with the dashboard of the caller's role.
func (api *dashboardApi) retrieve(ctx echo.Context) error {
	id, ok := getContextIdentity(ctx)
	if !ok {
		return errUnauthorized
	}

	var data interface{}
	var err error
	reqCtx := ctx.Request().Context()
	switch id.Role {
	case user.RoleAdmin:
		data, err = api.admin(reqCtx)
	case user.RoleTeacher:
		data, err = api.teacher(reqCtx, id.UserID)
	case user.RoleStudent:
		data, err = api.student(reqCtx, id.UserID)
	default:
		return errRoleNotDetected
	}
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, data)
}

func (api *dashboardApi) admin(ctx context.Context) (AdminDashboard, error) {
	dash := AdminDashboard{Role: user.RoleAdmin}
	var err error
	if dash.Counts.Students, err = api.svc.Student.Count(ctx); err != nil {
		return AdminDashboard{}, err
	}
	if dash.Counts.Teachers, err = api.svc.Teacher.Count(ctx); err != nil {
		return AdminDashboard{}, err
	}
	if dash.Counts.Classes, err = api.svc.Class.Count(ctx); err != nil {
		return AdminDashboard{}, err
	}
	if dash.Teachers, err = api.svc.Teacher.Query(ctx); err != nil {
		return AdminDashboard{}, err
	}
	if dash.Subjects, err = api.svc.Subject.Query(ctx); err != nil {
		return AdminDashboard{}, err
	}
	return dash, nil
}

func (api *dashboardApi) teacher(ctx context.Context, userID string) (TeacherDashboard, error) {
	t, err := api.svc.Teacher.GetByUserID(ctx, userID)
	if err != nil {
		return TeacherDashboard{}, err
	}
	dash := TeacherDashboard{Role: user.RoleTeacher, Profile: t}
	if dash.HomeroomClasses, err = api.svc.Class.Query(ctx, class.QueryFilter{HomeroomTeacherID: t.ID}); err != nil {
		return TeacherDashboard{}, err
	}
	if dash.Schedules, err = api.svc.Schedule.Query(ctx, schedule.QueryFilter{TeacherID: t.ID}); err != nil {
		return TeacherDashboard{}, err
	}
	return dash, nil
}

func (api *dashboardApi) student(ctx context.Context, userID string) (StudentDashboard, error) {
	s, err := api.svc.Student.GetByUserID(ctx, userID)
	if err != nil {
		return StudentDashboard{}, err
	}
	dash := StudentDashboard{Role: user.RoleStudent, Profile: s}
	if dash.Memberships, err = api.svc.Class.QueryMembers(ctx, class.MembershipFilter{StudentID: s.ID}); err != nil {
		return StudentDashboard{}, err
	}
	if dash.Grades, err = api.svc.Grade.Query(ctx, grade.QueryFilter{StudentID: s.ID}); err != nil {
		return StudentDashboard{}, err
	}
	return dash, nil
}
