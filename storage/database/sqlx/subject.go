package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/subject"
)

var subjectColumns = []string{"id", "code", "name", "created_at", "updated_at"}

type subjectRepository struct {
	conn
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) subject.Repository {
	return &subjectRepository{conn{db: db}}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	sub.ID = newID()
	q := psql.Insert("subjects").
		Columns(subjectColumns...).
		Values(sub.ID, sub.Code, sub.Name, sub.CreatedAt, sub.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return subject.Subject{}, err
	}
	return sub, nil
}

func (repo *subjectRepository) GetSubject(ctx context.Context, filter subject.GetFilter) (subject.Subject, error) {
	q := psql.Select(subjectColumns...).From("subjects")
	switch {
	case filter.ID != "":
		if !validID(filter.ID) {
			return subject.Subject{}, subject.ErrNotFound
		}
		q = q.Where(sq.Eq{"id": filter.ID})
	case filter.Code != "":
		q = q.Where(sq.Eq{"code": filter.Code})
	default:
		return subject.Subject{}, subject.ErrNotFound
	}

	var sub subject.Subject
	err := repo.get(ctx, &sub, q)
	return sub, notFound(err, subject.ErrNotFound)
}

func (repo *subjectRepository) QuerySubjects(ctx context.Context) ([]subject.Subject, error) {
	subjects := make([]subject.Subject, 0)
	err := repo.selekt(ctx, &subjects, psql.Select(subjectColumns...).From("subjects").OrderBy("name"))
	return subjects, err
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	if !validID(sub.ID) {
		return subject.Subject{}, subject.ErrNotFound
	}
	q := psql.Update("subjects").
		Set("code", sub.Code).
		Set("name", sub.Name).
		Set("updated_at", sub.UpdatedAt).
		Where(sq.Eq{"id": sub.ID})
	if err := repo.execOne(ctx, q, subject.ErrNotFound); err != nil {
		return subject.Subject{}, err
	}
	return sub, nil
}

func (repo *subjectRepository) DeleteSubject(ctx context.Context, id string) error {
	if !validID(id) {
		return subject.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("subjects").Where(sq.Eq{"id": id}), subject.ErrNotFound)
}

func (repo *subjectRepository) CountSubjectDependents(ctx context.Context, id string) (subject.Dependents, error) {
	var deps subject.Dependents
	q := countsQuery(id,
		counter{table: "schedules", column: "subject_id", alias: "schedules"},
		counter{table: "grades", column: "subject_id", alias: "grades"},
	)
	err := repo.get(ctx, &deps, q)
	return deps, dbError(err)
}
