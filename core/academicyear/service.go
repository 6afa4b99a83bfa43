package academicyear

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("academic year not found")
	ErrNoActiveYear   = core.NewNotFoundError("there is no active academic year")
	ErrPeriodExists   = core.NewConflictError("an academic year with this period already exists")
	ErrHasClasses     = core.NewDependencyError("academic year still has classes, delete them first")
	ErrHasGrades      = core.NewDependencyError("academic year still has grades, delete them first")
	ErrHasMemberships = core.NewDependencyError("academic year still has class members, remove them first")
)

type (
	Repository interface {
		CreateYear(ctx context.Context, year AcademicYear) (AcademicYear, error)
		// GetYear returns the AcademicYear matching the first set field of the filter (ID, Period, then Active).
		GetYear(ctx context.Context, filter GetFilter) (AcademicYear, error)
		// QueryYears returns all AcademicYears, latest period first.
		QueryYears(ctx context.Context) ([]AcademicYear, error)
		UpdateYear(ctx context.Context, year AcademicYear) (AcademicYear, error)
		// DeactivateYears clears the active flag of every AcademicYear.
		DeactivateYears(ctx context.Context, updatedAt time.Time) error
		DeleteYear(ctx context.Context, id string) error
		CountYearDependents(ctx context.Context, id string) (Dependents, error)
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

func (svc *Service) checkUniqueness(ctx context.Context, period string) error {
	_, err := svc.repo.GetYear(ctx, GetFilter{Period: period})
	switch {
	case err == nil:
		return ErrPeriodExists
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return errors.Wrap(err, "checking period uniqueness")
	}
}

// Create adds a new AcademicYear. An active one first deactivates all others, in the same transaction.
func (svc *Service) Create(ctx context.Context, ny NewYear) (AcademicYear, error) {
	if err := ny.Validate(svc.validate); err != nil {
		return AcademicYear{}, err
	}

	now := time.Now().UTC()
	year := AcademicYear{
		Period:    ny.Period,
		IsActive:  ny.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.checkUniqueness(ctx, year.Period); err != nil {
			return err
		}
		if year.IsActive {
			if err := svc.repo.DeactivateYears(ctx, now); err != nil {
				return errors.Wrap(err, "deactivating academic years")
			}
		}
		var err error
		year, err = svc.repo.CreateYear(ctx, year)
		return err
	})
	if err != nil {
		return AcademicYear{}, core.Catch(svc.logger, err, "creating academic year")
	}
	return year, nil
}

func (svc *Service) Query(ctx context.Context) ([]AcademicYear, error) {
	years, err := svc.repo.QueryYears(ctx)
	return years, core.Catch(svc.logger, err, "querying academic years")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Detail, error) {
	year, err := svc.repo.GetYear(ctx, GetFilter{ID: id})
	if err != nil {
		return Detail{}, core.Catch(svc.logger, err, "getting academic year by ID")
	}
	deps, err := svc.repo.CountYearDependents(ctx, id)
	if err != nil {
		return Detail{}, core.Catch(svc.logger, err, "counting academic year dependents")
	}
	return Detail{AcademicYear: year, Counts: deps}, nil
}

func (svc *Service) GetActive(ctx context.Context) (AcademicYear, error) {
	year, err := svc.repo.GetYear(ctx, GetFilter{Active: true})
	if errors.Is(err, ErrNotFound) {
		return AcademicYear{}, ErrNoActiveYear
	}
	return year, core.Catch(svc.logger, err, "getting active academic year")
}

// Update applies uy to the AcademicYear.
// Activating a year that is not active yet deactivates all others first; deactivating the active one leaves none active.
func (svc *Service) Update(ctx context.Context, id string, uy UpdateYear) (AcademicYear, error) {
	if err := uy.Validate(svc.validate); err != nil {
		return AcademicYear{}, err
	}

	var year AcademicYear
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		orig, err := svc.repo.GetYear(ctx, GetFilter{ID: id})
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		year = orig
		year.UpdatedAt = now

		if uy.Period != nil && *uy.Period != orig.Period {
			if err = svc.checkUniqueness(ctx, *uy.Period); err != nil {
				return err
			}
			year.Period = *uy.Period
		}
		if uy.IsActive != nil {
			if *uy.IsActive && !orig.IsActive {
				if err = svc.repo.DeactivateYears(ctx, now); err != nil {
					return errors.Wrap(err, "deactivating academic years")
				}
			}
			year.IsActive = *uy.IsActive
		}
		year, err = svc.repo.UpdateYear(ctx, year)
		return err
	})
	if err != nil {
		return AcademicYear{}, core.Catch(svc.logger, err, "updating academic year")
	}
	return year, nil
}

// SetActive makes id the only active AcademicYear. Nothing changes when id does not exist.
func (svc *Service) SetActive(ctx context.Context, id string) (AcademicYear, error) {
	var year AcademicYear
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if year, err = svc.repo.GetYear(ctx, GetFilter{ID: id}); err != nil {
			return err
		}
		now := time.Now().UTC()
		if err = svc.repo.DeactivateYears(ctx, now); err != nil {
			return errors.Wrap(err, "deactivating academic years")
		}
		year.IsActive = true
		year.UpdatedAt = now
		year, err = svc.repo.UpdateYear(ctx, year)
		return err
	})
	if err != nil {
		return AcademicYear{}, core.Catch(svc.logger, err, "setting active academic year")
	}
	return year, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetYear(ctx, GetFilter{ID: id}); err != nil {
			return err
		}
		deps, err := svc.repo.CountYearDependents(ctx, id)
		if err != nil {
			return errors.Wrap(err, "counting academic year dependents")
		}
		if err = deps.Blocking(); err != nil {
			return err
		}
		return svc.repo.DeleteYear(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting academic year")
}
