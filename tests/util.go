package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/academicyear"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database/dummy"
)

// Password satisfies the password policy for every fixture username.
const Password = "Tr0ub4dor&3"

// Env holds every service of the app wired to one store.
type Env struct {
	DB         *dummydb.DB // nil unless in-memory
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	Users       *user.Service
	Years       *academicyear.Service
	Subjects    *subject.Service
	Teachers    *teacher.Service
	Students    *student.Service
	Classes     *class.Service
	Schedules   *schedule.Service
	Attendances *attendance.Service
	Grades      *grade.Service
}

func Config() *core.Config {
	return &core.Config{
		AppName:   "Shule",
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		SecretKey: "test-secret-key",
		Server: core.ServerConfig{
			Port:               "8000",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: 24 * time.Hour,
			DisableReqLogs:     true,
		},
	}
}

func Logger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)
	return logger
}

// Validator returns a validator knowing every custom tag of the app.
func Validator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()

	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	academicyear.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	grade.InitValidators(validate, translator)
	return validate, translator
}

// Repos are the stores an Env runs its services on.
type Repos struct {
	Tx          core.Transactor
	Users       user.Repository
	Years       academicyear.Repository
	Subjects    subject.Repository
	Teachers    teacher.Repository
	Students    student.Repository
	Classes     class.Repository
	Schedules   schedule.Repository
	Attendances attendance.Repository
	Grades      grade.Repository
}

// NewEnv returns an Env backed by a fresh in-memory database.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	env := NewEnvWithRepos(t, Repos{
		Tx:          dummydb.NewTransactor(db),
		Users:       dummydb.NewUserRepository(db),
		Years:       dummydb.NewAcademicYearRepository(db),
		Subjects:    dummydb.NewSubjectRepository(db),
		Teachers:    dummydb.NewTeacherRepository(db),
		Students:    dummydb.NewStudentRepository(db),
		Classes:     dummydb.NewClassRepository(db),
		Schedules:   dummydb.NewScheduleRepository(db),
		Attendances: dummydb.NewAttendanceRepository(db),
		Grades:      dummydb.NewGradeRepository(db),
	})
	env.DB = db
	return env
}

func NewEnvWithRepos(t *testing.T, r Repos) *Env {
	t.Helper()

	conf := Config()
	validate, translator := Validator()
	logger := Logger(conf)
	return &Env{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		Users:       user.NewService(r.Users, r.Tx, validate, logger),
		Years:       academicyear.NewService(r.Years, r.Tx, validate, logger),
		Subjects:    subject.NewService(r.Subjects, r.Tx, validate, logger),
		Teachers:    teacher.NewService(r.Teachers, r.Users, r.Tx, validate, logger),
		Students:    student.NewService(r.Students, r.Users, r.Tx, validate, logger),
		Classes:     class.NewService(r.Classes, r.Teachers, r.Years, r.Students, r.Tx, validate, logger),
		Schedules:   schedule.NewService(r.Schedules, r.Teachers, r.Subjects, r.Classes, r.Tx, validate, logger),
		Attendances: attendance.NewService(r.Attendances, r.Students, r.Schedules, r.Tx, validate, logger),
		Grades:      grade.NewService(r.Grades, r.Students, r.Subjects, r.Teachers, r.Years, r.Tx, validate, logger),
	}
}

func (env *Env) CreateUser(t *testing.T, uname string, role user.Role) user.User {
	t.Helper()
	usr, err := env.Users.Create(context.Background(), user.NewUser{
		Username:        uname,
		Password:        Password,
		PasswordConfirm: Password,
		Role:            role,
	})
	require.NoError(t, err, "CreateUser(%s)", uname)
	return usr
}

func (env *Env) CreateYear(t *testing.T, period string, active bool) academicyear.AcademicYear {
	t.Helper()
	y, err := env.Years.Create(context.Background(), academicyear.NewYear{Period: period, IsActive: active})
	require.NoError(t, err, "CreateYear(%s)", period)
	return y
}

func (env *Env) CreateSubject(t *testing.T, code, name string) subject.Subject {
	t.Helper()
	sub, err := env.Subjects.Create(context.Background(), subject.NewSubject{Code: code, Name: name})
	require.NoError(t, err, "CreateSubject(%s)", code)
	return sub
}

// CreateTeacher creates a teacher account and its profile.
func (env *Env) CreateTeacher(t *testing.T, uname, name string) teacher.Teacher {
	t.Helper()
	usr := env.CreateUser(t, uname, user.RoleTeacher)
	tchr, err := env.Teachers.Create(context.Background(), teacher.NewTeacher{UserID: usr.ID, Name: name})
	require.NoError(t, err, "CreateTeacher(%s)", uname)
	return tchr
}

// CreateStudent creates a student profile, linked to a new student account when uname is set.
func (env *Env) CreateStudent(t *testing.T, uname, name string) student.Student {
	t.Helper()
	ns := student.NewStudent{Name: name}
	if uname != "" {
		ns.UserID = env.CreateUser(t, uname, user.RoleStudent).ID
	}
	s, err := env.Students.Create(context.Background(), ns)
	require.NoError(t, err, "CreateStudent(%s)", name)
	return s
}

func (env *Env) CreateClass(t *testing.T, name string, level int, homeroomID, yearID string) class.Class {
	t.Helper()
	c, err := env.Classes.Create(context.Background(), class.NewClass{
		Name:              name,
		Level:             level,
		HomeroomTeacherID: homeroomID,
		AcademicYearID:    yearID,
	})
	require.NoError(t, err, "CreateClass(%s)", name)
	return c
}

func (env *Env) AddMember(t *testing.T, studentID, classID, yearID string) class.Membership {
	t.Helper()
	m, err := env.Classes.AddMember(context.Background(), class.NewMembership{
		StudentID:      studentID,
		ClassID:        classID,
		AcademicYearID: yearID,
	})
	require.NoError(t, err, "AddMember(%s, %s)", studentID, classID)
	return m
}

func (env *Env) CreateEntry(t *testing.T, teacherID, subjectID, classID string, day schedule.Day, start, end string) schedule.Entry {
	t.Helper()
	e, err := env.Schedules.Create(context.Background(), schedule.NewEntry{
		TeacherID: teacherID,
		SubjectID: subjectID,
		ClassID:   classID,
		Day:       day,
		Start:     start,
		End:       end,
	})
	require.NoError(t, err, "CreateEntry(%s %s-%s)", day, start, end)
	return e
}

func Score(f float64) *float64 { return &f }
