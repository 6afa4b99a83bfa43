package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

const recentLimit = 5

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("student not found")
	ErrUserNotStudent = core.NewPreconditionError("user does not have the student role")
	ErrProfileExists  = core.NewPreconditionError("user already has a student profile")
	ErrHasMemberships = core.NewDependencyError("student is still a member of a class, remove them first")
	ErrHasAttendances = core.NewDependencyError("student still has attendance records, delete them first")
	ErrHasGrades      = core.NewDependencyError("student still has grades, delete them first")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		// QueryStudents returns Students ordered by name, unless filter says otherwise.
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		CountStudents(ctx context.Context) (int, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
		CountStudentDependents(ctx context.Context, id string) (Dependents, error)
	}

	Service struct {
		repo     Repository
		users    user.Repository
		tx       core.Transactor
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	users user.Repository,
	tx core.Transactor,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{repo: repo, users: users, tx: tx, validate: validate, logger: logger}
}

// checkUser makes sure the user exists, is a student and has no student profile yet.
func (svc *Service) checkUser(ctx context.Context, userID string) (user.User, error) {
	usr, err := svc.users.GetUser(ctx, user.GetFilter{ID: userID})
	if err != nil {
		return user.User{}, err
	}
	if !usr.IsStudent() {
		return user.User{}, ErrUserNotStudent
	}
	_, err = svc.repo.GetStudent(ctx, GetFilter{UserID: userID})
	switch {
	case err == nil:
		return user.User{}, ErrProfileExists
	case errors.Is(err, ErrNotFound):
		return usr, nil
	default:
		return user.User{}, errors.Wrap(err, "checking student profile")
	}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}

	now := time.Now().UTC()
	s := Student{
		UserID:    core.NullString(ns.UserID),
		Name:      ns.Name,
		NIS:       core.NullString(ns.NIS),
		Address:   core.NullString(ns.Address),
		Phone:     core.NullString(ns.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if s.UserID.Valid {
			usr, err := svc.checkUser(ctx, s.UserID.String)
			if err != nil {
				return err
			}
			s.Username = null.StringFrom(usr.Username)
		}
		username := s.Username
		var err error
		if s, err = svc.repo.CreateStudent(ctx, s); err != nil {
			return err
		}
		s.Username = username
		return nil
	})
	if err != nil {
		return Student{}, core.Catch(svc.logger, err, "creating student")
	}
	return s, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, filter)
	return students, core.Catch(svc.logger, err, "querying students")
}

// Recent returns the latest created Students.
func (svc *Service) Recent(ctx context.Context, limit int) ([]Student, error) {
	filter := QueryFilter{NewestFirst: true, Limit: core.Limit(limit, recentLimit)}
	students, err := svc.repo.QueryStudents(ctx, filter)
	return students, core.Catch(svc.logger, err, "querying recent students")
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	n, err := svc.repo.CountStudents(ctx)
	return n, core.Catch(svc.logger, err, "counting students")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, GetFilter{ID: id})
	return s, core.Catch(svc.logger, err, "getting student by ID")
}

func (svc *Service) GetByUserID(ctx context.Context, userID string) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, GetFilter{UserID: userID})
	return s, core.Catch(svc.logger, err, "getting student by user ID")
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	if err := us.Validate(svc.validate); err != nil {
		return Student{}, err
	}

	var s Student
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if s, err = svc.repo.GetStudent(ctx, GetFilter{ID: id}); err != nil {
			return err
		}
		us.apply(&s)
		s.UpdatedAt = time.Now().UTC()
		s, err = svc.repo.UpdateStudent(ctx, s)
		return err
	})
	if err != nil {
		return Student{}, core.Catch(svc.logger, err, "updating student")
	}
	return s, nil
}

// Delete removes a Student with no class membership, attendance or grade.
func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetStudent(ctx, GetFilter{ID: id}); err != nil {
			return err
		}
		deps, err := svc.repo.CountStudentDependents(ctx, id)
		if err != nil {
			return errors.Wrap(err, "counting student dependents")
		}
		if err = deps.Blocking(); err != nil {
			return err
		}
		return svc.repo.DeleteStudent(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting student")
}
