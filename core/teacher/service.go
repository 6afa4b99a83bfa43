package teacher

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

const recentLimit = 5

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("teacher not found")
	ErrUserNotTeacher    = core.NewPreconditionError("user does not have the teacher role")
	ErrProfileExists     = core.NewPreconditionError("user already has a teacher profile")
	ErrIsHomeroomTeacher = core.NewDependencyError("teacher is still the homeroom teacher of a class, reassign it first")
	ErrHasSchedules      = core.NewDependencyError("teacher still has class schedules, delete them first")
	ErrHasGrades         = core.NewDependencyError("teacher still has grades, delete them first")
)

type (
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		GetTeacher(ctx context.Context, filter GetFilter) (Teacher, error)
		// QueryTeachers returns Teachers ordered by name, unless filter says otherwise.
		QueryTeachers(ctx context.Context, filter QueryFilter) ([]Teacher, error)
		CountTeachers(ctx context.Context) (int, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) error
		CountTeacherDependents(ctx context.Context, id string) (Dependents, error)
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

// checkUser makes sure the user exists, is a teacher and has no teacher profile yet.
func (svc *Service) checkUser(ctx context.Context, userID string) (user.User, error) {
	usr, err := svc.users.GetUser(ctx, user.GetFilter{ID: userID})
	if err != nil {
		return user.User{}, err
	}
	if !usr.IsTeacher() {
		return user.User{}, ErrUserNotTeacher
	}
	_, err = svc.repo.GetTeacher(ctx, GetFilter{UserID: userID})
	switch {
	case err == nil:
		return user.User{}, ErrProfileExists
	case errors.Is(err, ErrNotFound):
		return usr, nil
	default:
		return user.User{}, errors.Wrap(err, "checking teacher profile")
	}
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}

	now := time.Now().UTC()
	t := Teacher{
		UserID:    nt.UserID,
		Name:      nt.Name,
		NIP:       core.NullString(nt.NIP),
		Address:   core.NullString(nt.Address),
		Phone:     core.NullString(nt.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		usr, err := svc.checkUser(ctx, t.UserID)
		if err != nil {
			return err
		}
		if t, err = svc.repo.CreateTeacher(ctx, t); err != nil {
			return err
		}
		t.Username = usr.Username
		t.Role = usr.Role
		return nil
	})
	if err != nil {
		return Teacher{}, core.Catch(svc.logger, err, "creating teacher")
	}
	return t, nil
}

func (svc *Service) Query(ctx context.Context) ([]Teacher, error) {
	teachers, err := svc.repo.QueryTeachers(ctx, QueryFilter{})
	return teachers, core.Catch(svc.logger, err, "querying teachers")
}

// Recent returns the latest created Teachers.
func (svc *Service) Recent(ctx context.Context, limit int) ([]Teacher, error) {
	filter := QueryFilter{NewestFirst: true, Limit: core.Limit(limit, recentLimit)}
	teachers, err := svc.repo.QueryTeachers(ctx, filter)
	return teachers, core.Catch(svc.logger, err, "querying recent teachers")
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	n, err := svc.repo.CountTeachers(ctx)
	return n, core.Catch(svc.logger, err, "counting teachers")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	t, err := svc.repo.GetTeacher(ctx, GetFilter{ID: id})
	return t, core.Catch(svc.logger, err, "getting teacher by ID")
}

func (svc *Service) GetByUserID(ctx context.Context, userID string) (Teacher, error) {
	t, err := svc.repo.GetTeacher(ctx, GetFilter{UserID: userID})
	return t, core.Catch(svc.logger, err, "getting teacher by user ID")
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	if err := ut.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}

	var t Teacher
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = svc.repo.GetTeacher(ctx, GetFilter{ID: id}); err != nil {
			return err
		}
		ut.apply(&t)
		t.UpdatedAt = time.Now().UTC()
		t, err = svc.repo.UpdateTeacher(ctx, t)
		return err
	})
	if err != nil {
		return Teacher{}, core.Catch(svc.logger, err, "updating teacher")
	}
	return t, nil
}

// Delete removes a Teacher who owns no homeroom class, schedule or grade.
func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetTeacher(ctx, GetFilter{ID: id}); err != nil {
			return err
		}
		deps, err := svc.repo.CountTeacherDependents(ctx, id)
		if err != nil {
			return errors.Wrap(err, "counting teacher dependents")
		}
		if err = deps.Blocking(); err != nil {
			return err
		}
		return svc.repo.DeleteTeacher(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting teacher")
}
