package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/teacher"
)

type teacherRepository struct {
	conn
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{conn{db: db}}
}

func (repo *teacherRepository) selectTeachers() sq.SelectBuilder {
	return psql.Select(
		"t.id", "t.user_id", "t.name", "t.nip", "t.address", "t.phone", "t.created_at", "t.updated_at",
		"u.username", "u.role",
	).
		From("teachers t").
		Join("users u ON u.id = t.user_id")
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	t.ID = newID()
	q := psql.Insert("teachers").
		Columns("id", "user_id", "name", "nip", "address", "phone", "created_at", "updated_at").
		Values(t.ID, t.UserID, t.Name, t.NIP, t.Address, t.Phone, t.CreatedAt, t.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return teacher.Teacher{}, err
	}
	return t, nil
}

func (repo *teacherRepository) GetTeacher(ctx context.Context, filter teacher.GetFilter) (teacher.Teacher, error) {
	q := repo.selectTeachers()
	switch {
	case filter.ID != "":
		if !validID(filter.ID) {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		q = q.Where(sq.Eq{"t.id": filter.ID})
	case filter.UserID != "":
		if !validID(filter.UserID) {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		q = q.Where(sq.Eq{"t.user_id": filter.UserID})
	default:
		return teacher.Teacher{}, teacher.ErrNotFound
	}

	var t teacher.Teacher
	err := repo.get(ctx, &t, q)
	return t, notFound(err, teacher.ErrNotFound)
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error) {
	q := repo.selectTeachers()
	if filter.NewestFirst {
		q = q.OrderBy("t.created_at DESC")
	} else {
		q = q.OrderBy("t.name")
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	teachers := make([]teacher.Teacher, 0)
	err := repo.selekt(ctx, &teachers, q)
	return teachers, err
}

func (repo *teacherRepository) CountTeachers(ctx context.Context) (int, error) {
	return repo.count(ctx, psql.Select().From("teachers"))
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	if !validID(t.ID) {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	q := psql.Update("teachers").
		Set("name", t.Name).
		Set("nip", t.NIP).
		Set("address", t.Address).
		Set("phone", t.Phone).
		Set("updated_at", t.UpdatedAt).
		Where(sq.Eq{"id": t.ID})
	if err := repo.execOne(ctx, q, teacher.ErrNotFound); err != nil {
		return teacher.Teacher{}, err
	}
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	if !validID(id) {
		return teacher.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("teachers").Where(sq.Eq{"id": id}), teacher.ErrNotFound)
}

func (repo *teacherRepository) CountTeacherDependents(ctx context.Context, id string) (teacher.Dependents, error) {
	var deps teacher.Dependents
	q := countsQuery(id,
		counter{table: "classes", column: "homeroom_teacher_id", alias: "homeroom_classes"},
		counter{table: "schedules", column: "teacher_id", alias: "schedules"},
		counter{table: "grades", column: "teacher_id", alias: "grades"},
	)
	err := repo.get(ctx, &deps, q)
	return deps, dbError(err)
}
