package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/academicyear"
)

var yearColumns = []string{"id", "period", "is_active", "created_at", "updated_at"}

type yearRepository struct {
	conn
}

var _ academicyear.Repository = (*yearRepository)(nil) // interface compliance check

func NewAcademicYearRepository(db *sqlx.DB) academicyear.Repository {
	return &yearRepository{conn{db: db}}
}

func (repo *yearRepository) CreateYear(ctx context.Context, year academicyear.AcademicYear) (academicyear.AcademicYear, error) {
	year.ID = newID()
	q := psql.Insert("academic_years").
		Columns(yearColumns...).
		Values(year.ID, year.Period, year.IsActive, year.CreatedAt, year.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return academicyear.AcademicYear{}, err
	}
	return year, nil
}

func (repo *yearRepository) GetYear(ctx context.Context, filter academicyear.GetFilter) (academicyear.AcademicYear, error) {
	q := psql.Select(yearColumns...).From("academic_years")
	switch {
	case filter.ID != "":
		if !validID(filter.ID) {
			return academicyear.AcademicYear{}, academicyear.ErrNotFound
		}
		q = q.Where(sq.Eq{"id": filter.ID})
	case filter.Period != "":
		q = q.Where(sq.Eq{"period": filter.Period})
	case filter.Active:
		q = q.Where(sq.Eq{"is_active": true})
	default:
		return academicyear.AcademicYear{}, academicyear.ErrNotFound
	}

	var year academicyear.AcademicYear
	err := repo.get(ctx, &year, q)
	return year, notFound(err, academicyear.ErrNotFound)
}

func (repo *yearRepository) QueryYears(ctx context.Context) ([]academicyear.AcademicYear, error) {
	years := make([]academicyear.AcademicYear, 0)
	err := repo.selekt(ctx, &years, psql.Select(yearColumns...).From("academic_years").OrderBy("period DESC"))
	return years, err
}

func (repo *yearRepository) UpdateYear(ctx context.Context, year academicyear.AcademicYear) (academicyear.AcademicYear, error) {
	if !validID(year.ID) {
		return academicyear.AcademicYear{}, academicyear.ErrNotFound
	}
	q := psql.Update("academic_years").
		Set("period", year.Period).
		Set("is_active", year.IsActive).
		Set("updated_at", year.UpdatedAt).
		Where(sq.Eq{"id": year.ID})
	if err := repo.execOne(ctx, q, academicyear.ErrNotFound); err != nil {
		return academicyear.AcademicYear{}, err
	}
	return year, nil
}

func (repo *yearRepository) DeactivateYears(ctx context.Context, updatedAt time.Time) error {
	q := psql.Update("academic_years").
		Set("is_active", false).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"is_active": true})
	_, err := repo.exec(ctx, q)
	return err
}

func (repo *yearRepository) DeleteYear(ctx context.Context, id string) error {
	if !validID(id) {
		return academicyear.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("academic_years").Where(sq.Eq{"id": id}), academicyear.ErrNotFound)
}

func (repo *yearRepository) CountYearDependents(ctx context.Context, id string) (academicyear.Dependents, error) {
	var deps academicyear.Dependents
	q := countsQuery(id,
		counter{table: "classes", column: "academic_year_id", alias: "classes"},
		counter{table: "grades", column: "academic_year_id", alias: "grades"},
		counter{table: "class_members", column: "academic_year_id", alias: "memberships"},
	)
	err := repo.get(ctx, &deps, q)
	return deps, dbError(err)
}
