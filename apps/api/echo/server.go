package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

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
)

type (
	Services struct {
		User         *user.Service
		AcademicYear *academicyear.Service
		Subject      *subject.Service
		Teacher      *teacher.Service
		Student      *student.Service
		Class        *class.Service
		Schedule     *schedule.Service
		Attendance   *attendance.Service
		Grade        *grade.Service
	}

	Server struct {
		conf       *core.Config
		logger     core.Logger
		translator ut.Translator
		svc        Services
		tokens     *Tokens
		app        *echo.Echo
		shutdown   chan os.Signal
		errors     chan error
	}
)

func NewServer(conf *core.Config, logger core.Logger, translator ut.Translator, svc Services) *Server {
	s := &Server{
		conf:       conf,
		logger:     logger,
		translator: translator,
		svc:        svc,
		tokens:     NewTokens(conf.SecretKey, conf.Server.JWTExpirationDelta, conf.AppName),
		app:        echo.New(),
		shutdown:   make(chan os.Signal, 1),
		errors:     make(chan error, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(identifyMiddleware(s.tokens))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.translator, s.signalShutdown)
	s.app.Debug = s.conf.Debug

	registerPages(s.app, s.svc)

	api := s.app.Group("/api")
	registerAuthAPI(api, s.svc.User, s.tokens, s.conf.Server.JWTExpirationDelta)

	ag := api.Group("", authMiddleware)
	registerDashboardAPI(ag, s.svc)
	registerUserAPI(ag, s.svc.User)
	registerAcademicYearAPI(ag, s.svc.AcademicYear)
	registerSubjectAPI(ag, s.svc.Subject, s.svc.Schedule)
	registerTeacherAPI(ag, s.svc.Teacher, s.svc.Class, s.svc.Schedule)
	registerStudentAPI(ag, s.svc.Student)
	registerClassAPI(ag, s.svc.Class)
	registerMembershipAPI(ag, s.svc.Class)
	registerScheduleAPI(ag, s.svc.Schedule)
	registerAttendanceAPI(ag, s.svc.Attendance)
	registerGradeAPI(ag, s.svc.Grade)
}

func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors receives the error that stopped the server, if any.
func (s *Server) Errors() <-chan error { return s.errors }

// ShutdownSignal receives SIGINT, SIGTERM and internal shutdown requests.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func respond(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, core.OK(data))
}
