package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/student"
)

const recentLimit = 20

// ErrNotFound is returned when no attendance record matches.
var ErrNotFound = core.NewNotFoundError("attendance record not found")

type (
	Repository interface {
		CreateRecord(ctx context.Context, r Record) (Record, error)
		GetRecord(ctx context.Context, id string) (Record, error)
		// QueryRecords returns Records latest date first, then latest created first.
		QueryRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
		DeleteRecord(ctx context.Context, id string) error
	}

	Service struct {
		repo      Repository
		students  student.Repository
		schedules schedule.Repository
		tx        core.Transactor
		validate  *validator.Validate
		logger    core.Logger
	}
)

func NewService(
	repo Repository,
	students student.Repository,
	schedules schedule.Repository,
	tx core.Transactor,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{
		repo:      repo,
		students:  students,
		schedules: schedules,
		tx:        tx,
		validate:  validate,
		logger:    logger,
	}
}

func (svc *Service) Create(ctx context.Context, nr NewRecord) (Record, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Record{}, err
	}
	date, _ := time.Parse(DateLayout, nr.Date) // validated

	r := Record{
		StudentID:  nr.StudentID,
		ScheduleID: nr.ScheduleID,
		Date:       date,
		Status:     nr.Status,
		Note:       core.NullString(nr.Note),
		CreatedAt:  time.Now().UTC(),
	}
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := svc.students.GetStudent(ctx, student.GetFilter{ID: r.StudentID})
		if err != nil {
			return err
		}
		if _, err = svc.schedules.GetEntry(ctx, r.ScheduleID); err != nil {
			return err
		}
		r.StudentName = s.Name
		r, err = svc.repo.CreateRecord(ctx, r)
		return err
	})
	if err != nil {
		return Record{}, core.Catch(svc.logger, err, "creating attendance record")
	}
	return r, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Record, error) {
	records, err := svc.repo.QueryRecords(ctx, filter)
	return records, core.Catch(svc.logger, err, "querying attendance records")
}

// Recent returns the latest attendance records, of all schedules.
func (svc *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	records, err := svc.repo.QueryRecords(ctx, QueryFilter{Limit: core.Limit(limit, recentLimit)})
	return records, core.Catch(svc.logger, err, "querying recent attendance records")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Record, error) {
	r, err := svc.repo.GetRecord(ctx, id)
	return r, core.Catch(svc.logger, err, "getting attendance record by ID")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.repo.GetRecord(ctx, id); err != nil {
			return err
		}
		return svc.repo.DeleteRecord(ctx, id)
	})
	return core.Catch(svc.logger, err, "deleting attendance record")
}
