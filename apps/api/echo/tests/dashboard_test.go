package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/user"
)

func TestDashboard(t *testing.T) {
	a := setup(t)
	ctx := context.Background()

	year := a.CreateYear(t, "2024/2025", true)
	budi := a.CreateTeacher(t, "budi", "Budi")
	math := a.CreateSubject(t, "MTK", "Matematika")
	class := a.CreateClass(t, "7A", 7, budi.ID, year.ID)
	ani := a.CreateStudent(t, "ani", "Ani")
	a.CreateStudent(t, "", "Budi Kecil")
	a.AddMember(t, ani.ID, class.ID, year.ID)
	a.CreateEntry(t, budi.ID, math.ID, class.ID, schedule.Monday, "07:00", "08:30")

	get := func(t *testing.T, usr user.User, data interface{}) int {
		req, rec := newAuthRequest(http.MethodGet, "/api/dashboard", a.token(t, usr))
		a.serve(req, rec)
		if rec.Code == http.StatusOK {
			decode(t, rec, data)
		}
		return rec.Code
	}

	t.Run("admin", func(t *testing.T) {
		var dash echoapi.AdminDashboard
		require.Equal(t, http.StatusOK, get(t, a.CreateUser(t, "admin", user.RoleAdmin), &dash))
		assert.Equal(t, user.RoleAdmin, dash.Role)
		assert.Equal(t, echoapi.DashboardCounts{Students: 2, Teachers: 1, Classes: 1}, dash.Counts)
		require.Len(t, dash.Subjects, 1)
		assert.Equal(t, "MTK", dash.Subjects[0].Code)
	})

	t.Run("teacher", func(t *testing.T) {
		usr, err := a.Users.GetByID(ctx, budi.UserID)
		require.NoError(t, err)

		var dash echoapi.TeacherDashboard
		require.Equal(t, http.StatusOK, get(t, usr, &dash))
		assert.Equal(t, budi.ID, dash.Profile.ID)
		require.Len(t, dash.HomeroomClasses, 1)
		assert.Equal(t, class.ID, dash.HomeroomClasses[0].ID)
		require.Len(t, dash.Schedules, 1)
		assert.Equal(t, "Matematika", dash.Schedules[0].SubjectName)
	})

	t.Run("student", func(t *testing.T) {
		usr, err := a.Users.GetByUsername(ctx, "ani")
		require.NoError(t, err)

		var dash echoapi.StudentDashboard
		require.Equal(t, http.StatusOK, get(t, usr, &dash))
		assert.Equal(t, ani.ID, dash.Profile.ID)
		require.Len(t, dash.Memberships, 1)
		assert.Equal(t, class.ID, dash.Memberships[0].ClassID)
		assert.Empty(t, dash.Grades)
	})

	t.Run("teacher without profile", func(t *testing.T) {
		code := get(t, a.CreateUser(t, "baru", user.RoleTeacher), nil)
		assert.Equal(t, http.StatusNotFound, code)
	})
}
