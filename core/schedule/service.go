package schedule

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/subject"
	"github.com/trezcool/shule/core/teacher"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("schedule not found")
	ErrClassConflict   = core.NewConflictError("schedule overlaps another schedule of this class")
	ErrTeacherConflict = core.NewConflictError("schedule overlaps another schedule of this teacher")
	ErrHasAttendances  = core.NewDependencyError("schedule still has attendance records, delete them first")
)

type (
	Repository interface {
		// CreateEntry stores e and returns it with its new ID.
		CreateEntry(ctx context.Context, e Entry) (Entry, error)
		GetEntry(ctx context.Context, id string) (Entry, error)
		// QueryEntries returns Entries ordered by day (Monday first) then start time.
		QueryEntries(ctx context.Context, filter QueryFilter) ([]Entry, error)
		// QueryDayEntries returns the Entries of day belonging to classID OR teacherID.
		QueryDayEntries(ctx context.Context, day Day, classID, teacherID string) ([]Entry, error)
		UpdateEntry(ctx context.Context, e Entry) (Entry, error)
		DeleteEntry(ctx context.Context, id string) error
		CountEntryAttendances(ctx context.Context, id string) (int, error)
	}

	Service struct {
		repo     Repository
		teachers teacher.Repository
		subjects subject.Repository
		classes  class.Repository
		tx       core.Transactor
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	teachers teacher.Repository,
	subjects subject.Repository,
	classes class.Repository,
	tx core.Transactor,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		teachers: teachers,
		subjects: subjects,
		classes:  classes,
		tx:       tx,
		validate: validate,
		logger:   logger,
	}
}

// resolve checks that the teacher, subject and class of e exist and fills their names in.
func (svc *Service) resolve(ctx context.Context, e *Entry) error {
	t, err := svc.teachers.GetTeacher(ctx, teacher.GetFilter{ID: e.TeacherID})
	if err != nil {
		return err
	}
	sub, err := svc.subjects.GetSubject(ctx, subject.GetFilter{ID: e.SubjectID})
	if err != nil {
		return err
	}
	c, err := svc.classes.GetClass(ctx, e.ClassID)
	if err != nil {
		return err
	}
	e.TeacherName = t.Name
	e.SubjectCode = sub.Code
	e.SubjectName = sub.Name
	e.ClassName = c.Name
	return nil
}

// checkConflict must run in the same transaction as the write it guards.
func (svc *Service) checkConflict(ctx context.Context, candidate Entry) error {
	existing, err := svc.repo.QueryDayEntries(ctx, candidate.Day, candidate.ClassID, candidate.TeacherID)
	if err != nil {
		return errors.Wrap(err, "querying day entries")
	}
	if clash, ok := FindConflict(candidate, existing); ok {
		return conflictError(candidate, clash)
	}
	return nil
}

// Create adds a schedule Entry unless it overlaps an Entry of the same class or teacher on that day.
func (svc *Service) Create(ctx context.Context, ne NewEntry) (Entry, error) {
	if err := ne.Validate(svc.validate); err != nil {
		return Entry{}, err
	}

	now := time.Now().UTC()
	e := ne.entry()
	e.CreatedAt = now
	e.UpdatedAt = now

	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.resolve(ctx, &e); err != nil {
			return err
		}
		if err := svc.checkConflict(ctx, e); err != nil {
			return err
		}
		var err error
		e, err = svc.repo.CreateEntry(ctx, e)
		return err
	})
	if err != nil {
		return Entry{}, core.Catch(svc.logger, err, "creating schedule")
	}
	return e, nil
}

// Update applies ue and re-checks the result for conflicts, ignoring the Entry's own stored version.
func (svc *Service) Update(ctx context.Context, id string, ue UpdateEntry) (Entry, error) {
	var e Entry
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		orig, err := svc.repo.GetEntry(ctx, id)
		if err != nil {
			return err
		}
		ne := ue.merge(orig)
		if err = ne.Validate(svc.validate); err != nil {
			return err
		}

		e = ne.entry()
		e.ID = orig.ID
		e.CreatedAt = orig.CreatedAt
		e.UpdatedAt = time.Now().UTC()
		if err = svc.resolve(ctx, &e); err != nil {
			return err
		}
		if err = svc.checkConflict(ctx, e); err != nil {
			return err
		}
		e, err = svc.repo.UpdateEntry(ctx, e)
		return err
	})
	if err != nil {
		return Entry{}, core.Catch(svc.logger, err, "updating schedule")
	}
	return e, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	entries, err := svc.repo.QueryEntries(ctx, filter)
	return entries, core.Catch(svc.logger, err, "querying schedules")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Entry, error) {
	e, err := svc.repo.GetEntry(ctx, id)
	return e, core.Catch(svc.logger, err, "getting schedule by ID")
}

// Delete removes an Entry that no attendance record references.
func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetEntry(ctx, id); err != nil {
			return err
		}
		n, err := svc.repo.CountEntryAttendances(ctx, id)
		if err != nil {
			return errors.Wrap(err, "counting schedule attendances")
		}
		if n > 0 {
			return ErrHasAttendances
		}
		return svc.repo.DeleteEntry(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting schedule")
}
