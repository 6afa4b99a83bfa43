package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceRepository struct {
	conn
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{conn{db: db}}
}

func (repo *attendanceRepository) selectRecords() sq.SelectBuilder {
	return psql.Select(
		"a.id", "a.student_id", "a.schedule_id", "a.date", "a.status", "a.note", "a.created_at",
		"s.name AS student_name",
	).
		From("attendances a").
		Join("students s ON s.id = a.student_id")
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	r.ID = newID()
	q := psql.Insert("attendances").
		Columns("id", "student_id", "schedule_id", "date", "status", "note", "created_at").
		Values(r.ID, r.StudentID, r.ScheduleID, r.Date.Format(attendance.DateLayout), r.Status, r.Note, r.CreatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return attendance.Record{}, err
	}
	return r, nil
}

func (repo *attendanceRepository) GetRecord(ctx context.Context, id string) (attendance.Record, error) {
	if !validID(id) {
		return attendance.Record{}, attendance.ErrNotFound
	}
	var r attendance.Record
	err := repo.get(ctx, &r, repo.selectRecords().Where(sq.Eq{"a.id": id}))
	return r, notFound(err, attendance.ErrNotFound)
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	q := repo.selectRecords().OrderBy("a.date DESC", "a.created_at DESC")
	for col, id := range map[string]string{
		"a.schedule_id": filter.ScheduleID,
		"a.student_id":  filter.StudentID,
	} {
		if id == "" {
			continue
		}
		if !validID(id) {
			return []attendance.Record{}, nil
		}
		q = q.Where(sq.Eq{col: id})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	records := make([]attendance.Record, 0)
	err := repo.selekt(ctx, &records, q)
	return records, err
}

func (repo *attendanceRepository) DeleteRecord(ctx context.Context, id string) error {
	if !validID(id) {
		return attendance.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("attendances").Where(sq.Eq{"id": id}), attendance.ErrNotFound)
}
