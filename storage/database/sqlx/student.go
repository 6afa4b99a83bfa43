package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	conn
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{conn{db: db}}
}

func (repo *studentRepository) selectStudents() sq.SelectBuilder {
	return psql.Select(
		"s.id", "s.user_id", "s.name", "s.nis", "s.address", "s.phone", "s.created_at", "s.updated_at",
		"u.username",
	).
		From("students s").
		LeftJoin("users u ON u.id = s.user_id")
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	s.ID = newID()
	q := psql.Insert("students").
		Columns("id", "user_id", "name", "nis", "address", "phone", "created_at", "updated_at").
		Values(s.ID, s.UserID, s.Name, s.NIS, s.Address, s.Phone, s.CreatedAt, s.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	q := repo.selectStudents()
	switch {
	case filter.ID != "":
		if !validID(filter.ID) {
			return student.Student{}, student.ErrNotFound
		}
		q = q.Where(sq.Eq{"s.id": filter.ID})
	case filter.UserID != "":
		if !validID(filter.UserID) {
			return student.Student{}, student.ErrNotFound
		}
		q = q.Where(sq.Eq{"s.user_id": filter.UserID})
	default:
		return student.Student{}, student.ErrNotFound
	}

	var s student.Student
	err := repo.get(ctx, &s, q)
	return s, notFound(err, student.ErrNotFound)
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	q := repo.selectStudents()
	if filter.ClassID != "" {
		if !validID(filter.ClassID) {
			return []student.Student{}, nil
		}
		q = q.Where(sq.Expr("s.id IN (SELECT student_id FROM class_members WHERE class_id = ?)", filter.ClassID))
	}
	if filter.NewestFirst {
		q = q.OrderBy("s.created_at DESC")
	} else {
		q = q.OrderBy("s.name")
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	students := make([]student.Student, 0)
	err := repo.selekt(ctx, &students, q)
	return students, err
}

func (repo *studentRepository) CountStudents(ctx context.Context) (int, error) {
	return repo.count(ctx, psql.Select().From("students"))
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	if !validID(s.ID) {
		return student.Student{}, student.ErrNotFound
	}
	q := psql.Update("students").
		Set("name", s.Name).
		Set("nis", s.NIS).
		Set("address", s.Address).
		Set("phone", s.Phone).
		Set("updated_at", s.UpdatedAt).
		Where(sq.Eq{"id": s.ID})
	if err := repo.execOne(ctx, q, student.ErrNotFound); err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	if !validID(id) {
		return student.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("students").Where(sq.Eq{"id": id}), student.ErrNotFound)
}

func (repo *studentRepository) CountStudentDependents(ctx context.Context, id string) (student.Dependents, error) {
	var deps student.Dependents
	q := countsQuery(id,
		counter{table: "class_members", column: "student_id", alias: "memberships"},
		counter{table: "attendances", column: "student_id", alias: "attendances"},
		counter{table: "grades", column: "student_id", alias: "grades"},
	)
	err := repo.get(ctx, &deps, q)
	return deps, dbError(err)
}
