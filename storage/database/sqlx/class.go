package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/class"
)

type classRepository struct {
	conn
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) class.Repository {
	return &classRepository{conn{db: db}}
}

func (repo *classRepository) selectClasses() sq.SelectBuilder {
	return psql.Select(
		"c.id", "c.name", "c.level", "c.homeroom_teacher_id", "c.academic_year_id", "c.created_at", "c.updated_at",
		"t.name AS homeroom_teacher_name", "y.period",
		"(SELECT count(*) FROM class_members m WHERE m.class_id = c.id) AS member_count",
	).
		From("classes c").
		Join("teachers t ON t.id = c.homeroom_teacher_id").
		Join("academic_years y ON y.id = c.academic_year_id")
}

func (repo *classRepository) CreateClass(ctx context.Context, c class.Class) (class.Class, error) {
	c.ID = newID()
	q := psql.Insert("classes").
		Columns("id", "name", "level", "homeroom_teacher_id", "academic_year_id", "created_at", "updated_at").
		Values(c.ID, c.Name, c.Level, c.HomeroomTeacherID, c.AcademicYearID, c.CreatedAt, c.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return class.Class{}, err
	}
	return c, nil
}

func (repo *classRepository) GetClass(ctx context.Context, id string) (class.Class, error) {
	if !validID(id) {
		return class.Class{}, class.ErrNotFound
	}
	var c class.Class
	err := repo.get(ctx, &c, repo.selectClasses().Where(sq.Eq{"c.id": id}))
	return c, notFound(err, class.ErrNotFound)
}

func (repo *classRepository) QueryClasses(ctx context.Context, filter class.QueryFilter) ([]class.Class, error) {
	q := repo.selectClasses().OrderBy("c.level", "c.name")
	for col, id := range map[string]string{
		"c.academic_year_id":    filter.AcademicYearID,
		"c.homeroom_teacher_id": filter.HomeroomTeacherID,
	} {
		if id == "" {
			continue
		}
		if !validID(id) {
			return []class.Class{}, nil
		}
		q = q.Where(sq.Eq{col: id})
	}
	if filter.Level > 0 {
		q = q.Where(sq.Eq{"c.level": filter.Level})
	}
	classes := make([]class.Class, 0)
	err := repo.selekt(ctx, &classes, q)
	return classes, err
}

func (repo *classRepository) CountClasses(ctx context.Context) (int, error) {
	return repo.count(ctx, psql.Select().From("classes"))
}

func (repo *classRepository) UpdateClass(ctx context.Context, c class.Class) (class.Class, error) {
	if !validID(c.ID) {
		return class.Class{}, class.ErrNotFound
	}
	q := psql.Update("classes").
		Set("name", c.Name).
		Set("level", c.Level).
		Set("homeroom_teacher_id", c.HomeroomTeacherID).
		Set("updated_at", c.UpdatedAt).
		Where(sq.Eq{"id": c.ID})
	if err := repo.execOne(ctx, q, class.ErrNotFound); err != nil {
		return class.Class{}, err
	}
	return c, nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, id string) error {
	if !validID(id) {
		return class.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("classes").Where(sq.Eq{"id": id}), class.ErrNotFound)
}

func (repo *classRepository) CountClassDependents(ctx context.Context, id string) (class.Dependents, error) {
	var deps class.Dependents
	q := countsQuery(id,
		counter{table: "class_members", column: "class_id", alias: "memberships"},
		counter{table: "schedules", column: "class_id", alias: "schedules"},
	)
	err := repo.get(ctx, &deps, q)
	return deps, dbError(err)
}

// Memberships

func (repo *classRepository) selectMemberships() sq.SelectBuilder {
	return psql.Select(
		"m.id", "m.student_id", "m.class_id", "m.academic_year_id", "m.created_at",
		"s.name AS student_name", "c.name AS class_name", "y.period",
	).
		From("class_members m").
		Join("students s ON s.id = m.student_id").
		Join("classes c ON c.id = m.class_id").
		Join("academic_years y ON y.id = m.academic_year_id")
}

func (repo *classRepository) CreateMembership(ctx context.Context, m class.Membership) (class.Membership, error) {
	m.ID = newID()
	q := psql.Insert("class_members").
		Columns("id", "student_id", "class_id", "academic_year_id", "created_at").
		Values(m.ID, m.StudentID, m.ClassID, m.AcademicYearID, m.CreatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return class.Membership{}, err
	}
	return m, nil
}

func (repo *classRepository) GetMembership(ctx context.Context, id string) (class.Membership, error) {
	if !validID(id) {
		return class.Membership{}, class.ErrMembershipNotFound
	}
	var m class.Membership
	err := repo.get(ctx, &m, repo.selectMemberships().Where(sq.Eq{"m.id": id}))
	return m, notFound(err, class.ErrMembershipNotFound)
}

func (repo *classRepository) FindMembership(ctx context.Context, studentID, classID, yearID string) (class.Membership, error) {
	if !validID(studentID) || !validID(classID) || !validID(yearID) {
		return class.Membership{}, class.ErrMembershipNotFound
	}
	q := repo.selectMemberships().Where(sq.Eq{
		"m.student_id":       studentID,
		"m.class_id":         classID,
		"m.academic_year_id": yearID,
	})
	var m class.Membership
	err := repo.get(ctx, &m, q)
	return m, notFound(err, class.ErrMembershipNotFound)
}

func (repo *classRepository) QueryMemberships(ctx context.Context, filter class.MembershipFilter) ([]class.Membership, error) {
	q := repo.selectMemberships().OrderBy("s.name")
	for col, id := range map[string]string{
		"m.student_id":       filter.StudentID,
		"m.class_id":         filter.ClassID,
		"m.academic_year_id": filter.AcademicYearID,
	} {
		if id == "" {
			continue
		}
		if !validID(id) {
			return []class.Membership{}, nil
		}
		q = q.Where(sq.Eq{col: id})
	}
	members := make([]class.Membership, 0)
	err := repo.selekt(ctx, &members, q)
	return members, err
}

func (repo *classRepository) DeleteMembership(ctx context.Context, id string) error {
	if !validID(id) {
		return class.ErrMembershipNotFound
	}
	return repo.execOne(ctx, psql.Delete("class_members").Where(sq.Eq{"id": id}), class.ErrMembershipNotFound)
}
