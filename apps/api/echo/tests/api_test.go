package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/academicyear"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/tests"
)

func TestSubjectAPI(t *testing.T) {
	a := setup(t)
	admin := a.token(t, a.CreateUser(t, "admin", user.RoleAdmin))
	student := a.token(t, a.CreateUser(t, "siti", user.RoleStudent))
	math := a.CreateSubject(t, "MTK", "Matematika")

	runHTTPTests(t, a, []httpTest{
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/api/subjects",
			body:     marchallObj(t, subject.NewSubject{Code: "BIO", Name: "Biologi"}),
			token:    admin,
			wantCode: http.StatusCreated,
		},
		{
			name:     "create as student",
			method:   http.MethodPost,
			path:     "/api/subjects",
			body:     marchallObj(t, subject.NewSubject{Code: "FIS", Name: "Fisika"}),
			token:    student,
			wantCode: http.StatusForbidden,
			wantData: fail(t, "permission denied"),
		},
		{
			name:     "duplicate code",
			method:   http.MethodPost,
			path:     "/api/subjects",
			body:     marchallObj(t, subject.NewSubject{Code: "MTK", Name: "Matematika Lanjut"}),
			token:    admin,
			wantCode: http.StatusConflict,
			wantData: fail(t, "a subject with this code already exists"),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     "/api/subjects/code/MTK",
			token:    student,
			wantCode: http.StatusOK,
			wantData: ok(t, math),
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/api/subjects/" + uuid.New().String(),
			token:    student,
			wantCode: http.StatusNotFound,
			wantData: fail(t, "subject not found"),
		},
	})

	t.Run("invalid input", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/subjects", admin, []byte(`{}`))
		a.serve(req, rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		env := decode(t, rec, nil)
		assert.False(t, env.Success)
		assert.Equal(t, "invalid input", env.Error)
		assert.Contains(t, env.Fields, "code")
		assert.Contains(t, env.Fields, "name")
	})
}

func TestScheduleAPI_conflicts(t *testing.T) {
	a := setup(t)
	admin := a.token(t, a.CreateUser(t, "admin", user.RoleAdmin))
	teacher := a.CreateUser(t, "guru", user.RoleTeacher)

	year := a.CreateYear(t, "2024/2025", true)
	t1 := a.CreateTeacher(t, "budi", "Budi")
	t2 := a.CreateTeacher(t, "wati", "Wati")
	math := a.CreateSubject(t, "MTK", "Matematika")
	c7a := a.CreateClass(t, "7A", 7, t1.ID, year.ID)
	c7b := a.CreateClass(t, "7B", 7, t2.ID, year.ID)
	existing := a.CreateEntry(t, t1.ID, math.ID, c7a.ID, schedule.Monday, "07:00", "08:30")

	entry := func(teacherID, classID, start, end string) []byte {
		return marchallObj(t, schedule.NewEntry{
			TeacherID: teacherID,
			SubjectID: math.ID,
			ClassID:   classID,
			Day:       schedule.Monday,
			Start:     start,
			End:       end,
		})
	}

	runHTTPTests(t, a, []httpTest{
		{
			name:     "class busy",
			method:   http.MethodPost,
			path:     "/api/schedules",
			body:     entry(t2.ID, c7a.ID, "08:00", "09:00"),
			token:    admin,
			wantCode: http.StatusConflict,
			wantData: fail(t, "schedule overlaps another schedule of this class"),
		},
		{
			name:     "teacher busy",
			method:   http.MethodPost,
			path:     "/api/schedules",
			body:     entry(t1.ID, c7b.ID, "08:00", "09:00"),
			token:    admin,
			wantCode: http.StatusConflict,
			wantData: fail(t, "schedule overlaps another schedule of this teacher"),
		},
		{
			name:     "back to back",
			method:   http.MethodPost,
			path:     "/api/schedules",
			body:     entry(t1.ID, c7a.ID, "08:30", "09:30"),
			token:    admin,
			wantCode: http.StatusCreated,
		},
		{
			name:     "teacher cannot schedule",
			method:   http.MethodPost,
			path:     "/api/schedules",
			body:     entry(t2.ID, c7b.ID, "10:00", "11:00"),
			token:    a.token(t, teacher),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "subject in use",
			method:   http.MethodDelete,
			path:     "/api/subjects/" + math.ID,
			token:    admin,
			wantCode: http.StatusConflict,
			wantData: fail(t, "subject is still used by class schedules, delete them first"),
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/api/schedules/" + existing.ID,
			token:    admin,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success":true}`),
		},
	})
}

func TestTeacherAPI_preconditions(t *testing.T) {
	a := setup(t)
	admin := a.token(t, a.CreateUser(t, "admin", user.RoleAdmin))
	notTeacher := a.CreateUser(t, "siti", user.RoleStudent)
	budi := a.CreateTeacher(t, "budi", "Budi")

	runHTTPTests(t, a, []httpTest{
		{
			name:     "user is not a teacher",
			method:   http.MethodPost,
			path:     "/api/teachers",
			body:     marchallObj(t, teacher.NewTeacher{UserID: notTeacher.ID, Name: "Siti"}),
			token:    admin,
			wantCode: http.StatusUnprocessableEntity,
			wantData: fail(t, "user does not have the teacher role"),
		},
		{
			name:     "profile exists",
			method:   http.MethodPost,
			path:     "/api/teachers",
			body:     marchallObj(t, teacher.NewTeacher{UserID: budi.UserID, Name: "Budi"}),
			token:    admin,
			wantCode: http.StatusUnprocessableEntity,
			wantData: fail(t, "user already has a teacher profile"),
		},
		{
			name:     "count",
			method:   http.MethodGet,
			path:     "/api/teachers/count",
			token:    admin,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success":true,"data":{"count":1}}`),
		},
		{
			name:     "user delete blocked",
			method:   http.MethodDelete,
			path:     "/api/users/" + budi.UserID,
			token:    admin,
			wantCode: http.StatusConflict,
			wantData: fail(t, "user still has a teacher profile, delete it first"),
		},
	})
}

func TestUserAPI_deleteSelf(t *testing.T) {
	a := setup(t)
	admin := a.CreateUser(t, "admin", user.RoleAdmin)

	req, rec := newAuthRequest(http.MethodDelete, "/api/users/"+admin.ID, a.token(t, admin))
	a.serve(req, rec)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAcademicYearAPI_activate(t *testing.T) {
	a := setup(t)
	admin := a.token(t, a.CreateUser(t, "admin", user.RoleAdmin))
	first := a.CreateYear(t, "2023/2024", true)
	second := a.CreateYear(t, "2024/2025", false)

	req, rec := newAuthRequest(http.MethodPost, "/api/academic-years/"+second.ID+"/activate", admin)
	a.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req, rec = newAuthRequest(http.MethodGet, "/api/academic-years/active", admin)
	a.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)

	var active academicyear.AcademicYear
	decode(t, rec, &active)
	assert.Equal(t, second.ID, active.ID)

	req, rec = newAuthRequest(http.MethodGet, "/api/academic-years/"+first.ID, admin)
	a.serve(req, rec)
	var old academicyear.AcademicYear
	decode(t, rec, &old)
	assert.False(t, old.IsActive)
}

func TestGradeAPI(t *testing.T) {
	a := setup(t)
	year := a.CreateYear(t, "2024/2025", true)
	budi := a.CreateTeacher(t, "budi", "Budi")
	math := a.CreateSubject(t, "MTK", "Matematika")
	class := a.CreateClass(t, "7A", 7, budi.ID, year.ID)
	ani := a.CreateStudent(t, "ani", "Ani")
	a.AddMember(t, ani.ID, class.ID, year.ID)

	budiUser, err := a.Users.GetByID(context.Background(), budi.UserID)
	require.NoError(t, err)
	teacherToken := a.token(t, budiUser)
	studentUser, err := a.Users.GetByUsername(context.Background(), "ani")
	require.NoError(t, err)
	studentToken := a.token(t, studentUser)

	newGrade := func(score float64) []byte {
		return marchallObj(t, grade.NewGrade{
			StudentID:      ani.ID,
			SubjectID:      math.ID,
			TeacherID:      budi.ID,
			AcademicYearID: year.ID,
			Semester:       grade.SemesterOdd,
			Type:           grade.TypeQuiz,
			Score:          testutil.Score(score),
		})
	}

	runHTTPTests(t, a, []httpTest{
		{
			name:     "student cannot grade",
			method:   http.MethodPost,
			path:     "/api/grades",
			body:     newGrade(100),
			token:    studentToken,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "teacher grades",
			method:   http.MethodPost,
			path:     "/api/grades",
			body:     newGrade(85),
			token:    teacherToken,
			wantCode: http.StatusCreated,
		},
		{
			name:     "grade twice",
			method:   http.MethodPost,
			path:     "/api/grades",
			body:     newGrade(90),
			token:    teacherToken,
			wantCode: http.StatusConflict,
		},
		{
			name:     "score out of range",
			method:   http.MethodPost,
			path:     "/api/grades",
			body:     newGrade(101),
			token:    teacherToken,
			wantCode: http.StatusBadRequest,
		},
	})

	t.Run("class view", func(t *testing.T) {
		path := "/api/grades/class?class_id=" + class.ID + "&subject_id=" + math.ID +
			"&semester=odd&academic_year_id=" + year.ID
		req, rec := newAuthRequest(http.MethodGet, path, teacherToken)
		a.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var grades []grade.Grade
		decode(t, rec, &grades)
		require.Len(t, grades, 1)
		assert.Equal(t, "Ani", grades[0].StudentName)
		assert.Equal(t, 85.0, grades[0].Score)
	})

	t.Run("class view without filters", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/grades/class?class_id="+class.ID, teacherToken)
		a.serve(req, rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		env := decode(t, rec, nil)
		assert.Contains(t, env.Fields, "subject_id")
		assert.Contains(t, env.Fields, "semester")
		assert.Contains(t, env.Fields, "academic_year_id")
	})
}
