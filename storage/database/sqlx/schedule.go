package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/schedule"
)

// orders days Monday first
const dayOrder = "array_position(ARRAY['monday','tuesday','wednesday','thursday','friday','saturday','sunday']::text[], e.day)"

type scheduleRepository struct {
	conn
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) schedule.Repository {
	return &scheduleRepository{conn{db: db}}
}

func (repo *scheduleRepository) selectEntries() sq.SelectBuilder {
	return psql.Select(
		"e.id", "e.teacher_id", "e.subject_id", "e.class_id", "e.day", "e.start_minute", "e.end_minute",
		"e.created_at", "e.updated_at",
		"t.name AS teacher_name", "sub.code AS subject_code", "sub.name AS subject_name", "c.name AS class_name",
	).
		From("schedules e").
		Join("teachers t ON t.id = e.teacher_id").
		Join("subjects sub ON sub.id = e.subject_id").
		Join("classes c ON c.id = e.class_id").
		OrderBy(dayOrder, "e.start_minute")
}

func (repo *scheduleRepository) CreateEntry(ctx context.Context, e schedule.Entry) (schedule.Entry, error) {
	e.ID = newID()
	q := psql.Insert("schedules").
		Columns("id", "teacher_id", "subject_id", "class_id", "day", "start_minute", "end_minute", "created_at", "updated_at").
		Values(e.ID, e.TeacherID, e.SubjectID, e.ClassID, e.Day, e.Start, e.End, e.CreatedAt, e.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return schedule.Entry{}, err
	}
	return e, nil
}

func (repo *scheduleRepository) GetEntry(ctx context.Context, id string) (schedule.Entry, error) {
	if !validID(id) {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	var e schedule.Entry
	err := repo.get(ctx, &e, repo.selectEntries().Where(sq.Eq{"e.id": id}))
	return e, notFound(err, schedule.ErrNotFound)
}

func (repo *scheduleRepository) QueryEntries(ctx context.Context, filter schedule.QueryFilter) ([]schedule.Entry, error) {
	q := repo.selectEntries()
	for col, id := range map[string]string{
		"e.teacher_id": filter.TeacherID,
		"e.class_id":   filter.ClassID,
		"e.subject_id": filter.SubjectID,
	} {
		if id == "" {
			continue
		}
		if !validID(id) {
			return []schedule.Entry{}, nil
		}
		q = q.Where(sq.Eq{col: id})
	}
	if filter.Day != "" {
		q = q.Where(sq.Eq{"e.day": filter.Day})
	}
	entries := make([]schedule.Entry, 0)
	err := repo.selekt(ctx, &entries, q)
	return entries, err
}

func (repo *scheduleRepository) QueryDayEntries(ctx context.Context, day schedule.Day, classID, teacherID string) ([]schedule.Entry, error) {
	q := repo.selectEntries().
		Where(sq.Eq{"e.day": day}).
		Where(sq.Or{sq.Eq{"e.class_id": classID}, sq.Eq{"e.teacher_id": teacherID}})
	entries := make([]schedule.Entry, 0)
	err := repo.selekt(ctx, &entries, q)
	return entries, err
}

func (repo *scheduleRepository) UpdateEntry(ctx context.Context, e schedule.Entry) (schedule.Entry, error) {
	if !validID(e.ID) {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	q := psql.Update("schedules").
		Set("teacher_id", e.TeacherID).
		Set("subject_id", e.SubjectID).
		Set("class_id", e.ClassID).
		Set("day", e.Day).
		Set("start_minute", e.Start).
		Set("end_minute", e.End).
		Set("updated_at", e.UpdatedAt).
		Where(sq.Eq{"id": e.ID})
	if err := repo.execOne(ctx, q, schedule.ErrNotFound); err != nil {
		return schedule.Entry{}, err
	}
	return e, nil
}

func (repo *scheduleRepository) DeleteEntry(ctx context.Context, id string) error {
	if !validID(id) {
		return schedule.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("schedules").Where(sq.Eq{"id": id}), schedule.ErrNotFound)
}

func (repo *scheduleRepository) CountEntryAttendances(ctx context.Context, id string) (int, error) {
	return repo.count(ctx, psql.Select().From("attendances").Where(sq.Eq{"schedule_id": id}))
}
