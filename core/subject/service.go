package subject

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound     = core.NewNotFoundError("subject not found")
	ErrCodeExists   = core.NewConflictError("a subject with this code already exists")
	ErrHasSchedules = core.NewDependencyError("subject is still used by class schedules, delete them first")
	ErrHasGrades    = core.NewDependencyError("subject still has grades, delete them first")
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		GetSubject(ctx context.Context, filter GetFilter) (Subject, error)
		// QuerySubjects returns all Subjects ordered by name.
		QuerySubjects(ctx context.Context) ([]Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		DeleteSubject(ctx context.Context, id string) error
		CountSubjectDependents(ctx context.Context, id string) (Dependents, error)
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

func (svc *Service) checkUniqueness(ctx context.Context, code string) error {
	_, err := svc.repo.GetSubject(ctx, GetFilter{Code: code})
	switch {
	case err == nil:
		return ErrCodeExists
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return errors.Wrap(err, "checking subject code uniqueness")
	}
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Subject{}, err
	}

	now := time.Now().UTC()
	sub := Subject{Code: ns.Code, Name: ns.Name, CreatedAt: now, UpdatedAt: now}
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.checkUniqueness(ctx, sub.Code); err != nil {
			return err
		}
		var err error
		sub, err = svc.repo.CreateSubject(ctx, sub)
		return err
	})
	if err != nil {
		return Subject{}, core.Catch(svc.logger, err, "creating subject")
	}
	return sub, nil
}

func (svc *Service) Query(ctx context.Context) ([]Subject, error) {
	subs, err := svc.repo.QuerySubjects(ctx)
	return subs, core.Catch(svc.logger, err, "querying subjects")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	sub, err := svc.repo.GetSubject(ctx, GetFilter{ID: id})
	return sub, core.Catch(svc.logger, err, "getting subject by ID")
}

func (svc *Service) GetByCode(ctx context.Context, code string) (Subject, error) {
	sub, err := svc.repo.GetSubject(ctx, GetFilter{Code: core.CleanString(code)})
	return sub, core.Catch(svc.logger, err, "getting subject by code")
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	var sub Subject
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		orig, err := svc.repo.GetSubject(ctx, GetFilter{ID: id})
		if err != nil {
			return err
		}
		if err = us.Validate(orig, svc.validate); err != nil {
			return err
		}
		if us.Code != orig.Code {
			if err = svc.checkUniqueness(ctx, us.Code); err != nil {
				return err
			}
		}
		sub = orig
		sub.Code = us.Code
		sub.Name = us.Name
		sub.UpdatedAt = time.Now().UTC()
		sub, err = svc.repo.UpdateSubject(ctx, sub)
		return err
	})
	if err != nil {
		return Subject{}, core.Catch(svc.logger, err, "updating subject")
	}
	return sub, nil
}

// Delete removes a Subject that no schedule or grade references.
func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetSubject(ctx, GetFilter{ID: id}); err != nil {
			return err
		}
		deps, err := svc.repo.CountSubjectDependents(ctx, id)
		if err != nil {
			return errors.Wrap(err, "counting subject dependents")
		}
		if err = deps.Blocking(); err != nil {
			return err
		}
		return svc.repo.DeleteSubject(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting subject")
}
