package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound                = core.NewNotFoundError("user not found")
	ErrUsernameExists          = core.NewConflictError("a user with this username already exists")
	ErrHasTeacherProfile       = core.NewDependencyError("user still has a teacher profile, delete it first")
	ErrHasStudentProfile       = core.NewDependencyError("user still has a student profile, delete it first")
	ErrRoleKeepsTeacherProfile = core.NewPreconditionError("user has a teacher profile, delete it before changing the role")
	ErrRoleKeepsStudentProfile = core.NewPreconditionError("user has a student profile, delete it before changing the role")
	ErrAuthenticationFailed    = &core.Error{Kind: core.KindUnauthenticated, Message: "invalid username or password"}
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUser returns the first User matching any set field of the filter.
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		// QueryUsers returns Users ordered by username.
		QueryUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUser(ctx context.Context, id string) error
		CountUserDependents(ctx context.Context, id string) (Dependents, error)
	}

	Service struct {
		repo     Repository
		tx       core.Transactor
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(repo Repository, tx core.Transactor, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{repo: repo, tx: tx, validate: validate, logger: logger}
}

func (svc *Service) checkUniqueness(ctx context.Context, uname string, exclID string) error {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Username: uname})
	switch {
	case err == nil:
		if usr.ID != exclID {
			return ErrUsernameExists
		}
		return nil
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return errors.Wrap(err, "checking username uniqueness")
	}
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		Username:  nu.Username,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, core.Catch(svc.logger, err, "hashing password")
	}

	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.checkUniqueness(ctx, usr.Username, ""); err != nil {
			return err
		}
		var err error
		usr, err = svc.repo.CreateUser(ctx, usr)
		return err
	})
	if err != nil {
		return User{}, core.Catch(svc.logger, err, "creating user")
	}
	return usr, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]User, error) {
	users, err := svc.repo.QueryUsers(ctx, filter)
	return users, core.Catch(svc.logger, err, "querying users")
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	return usr, core.Catch(svc.logger, err, "getting user by ID")
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Username: core.CleanString(uname, true /* lower */)})
	return usr, core.Catch(svc.logger, err, "getting user by username")
}

// Authenticate returns the User owning these credentials.
// Unknown usernames and wrong passwords both fail with ErrAuthenticationFailed.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	return usr, nil
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	var usr User
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		orig, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
		if err != nil {
			return err
		}
		if err = uu.Validate(orig, svc.validate); err != nil {
			return err
		}
		if uu.Username != orig.Username {
			if err = svc.checkUniqueness(ctx, uu.Username, orig.ID); err != nil {
				return err
			}
		}
		if uu.Role != orig.Role {
			deps, err := svc.repo.CountUserDependents(ctx, orig.ID)
			if err != nil {
				return errors.Wrap(err, "counting user dependents")
			}
			if err = deps.RoleChangeBlocked(uu.Role); err != nil {
				return err
			}
		}

		usr = orig
		usr.Username = uu.Username
		usr.Role = uu.Role
		usr.UpdatedAt = time.Now().UTC()
		if uu.Password != "" {
			if err = usr.SetPassword(uu.Password); err != nil {
				return errors.Wrap(err, "hashing password")
			}
		}
		usr, err = svc.repo.UpdateUser(ctx, usr)
		return err
	})
	if err != nil {
		return User{}, core.Catch(svc.logger, err, "updating user")
	}
	return usr, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetUser(ctx, GetFilter{ID: id}); err != nil {
			return err
		}
		deps, err := svc.repo.CountUserDependents(ctx, id)
		if err != nil {
			return errors.Wrap(err, "counting user dependents")
		}
		if err = deps.Blocking(); err != nil {
			return err
		}
		return svc.repo.DeleteUser(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting user")
}
