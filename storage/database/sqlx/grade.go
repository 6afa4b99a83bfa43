package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core/grade"
)

const gradeTypeOrder = "array_position(ARRAY['quiz','assignment','midterm','final']::text[], g.grade_type)"

type gradeRepository struct {
	conn
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) grade.Repository {
	return &gradeRepository{conn{db: db}}
}

func (repo *gradeRepository) selectGrades() sq.SelectBuilder {
	return psql.Select(
		"g.id", "g.student_id", "g.subject_id", "g.teacher_id", "g.academic_year_id", "g.semester", "g.grade_type",
		"g.score", "g.input_at", "g.updated_at",
		"s.name AS student_name", "sub.name AS subject_name", "t.name AS teacher_name", "y.period",
	).
		From("grades g").
		Join("students s ON s.id = g.student_id").
		Join("subjects sub ON sub.id = g.subject_id").
		Join("teachers t ON t.id = g.teacher_id").
		Join("academic_years y ON y.id = g.academic_year_id")
}

func (repo *gradeRepository) CreateGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	g.ID = newID()
	q := psql.Insert("grades").
		Columns(
			"id", "student_id", "subject_id", "teacher_id", "academic_year_id", "semester", "grade_type",
			"score", "input_at", "updated_at",
		).
		Values(
			g.ID, g.StudentID, g.SubjectID, g.TeacherID, g.AcademicYearID, g.Semester, g.Type,
			g.Score, g.InputAt, g.UpdatedAt,
		)
	if _, err := repo.exec(ctx, q); err != nil {
		return grade.Grade{}, err
	}
	return g, nil
}

func (repo *gradeRepository) GetGrade(ctx context.Context, id string) (grade.Grade, error) {
	if !validID(id) {
		return grade.Grade{}, grade.ErrNotFound
	}
	var g grade.Grade
	err := repo.get(ctx, &g, repo.selectGrades().Where(sq.Eq{"g.id": id}))
	return g, notFound(err, grade.ErrNotFound)
}

func (repo *gradeRepository) FindGrade(ctx context.Context, key grade.Key) (grade.Grade, error) {
	if !validID(key.StudentID) || !validID(key.SubjectID) || !validID(key.AcademicYearID) {
		return grade.Grade{}, grade.ErrNotFound
	}
	q := repo.selectGrades().Where(sq.Eq{
		"g.student_id":       key.StudentID,
		"g.subject_id":       key.SubjectID,
		"g.academic_year_id": key.AcademicYearID,
		"g.semester":         key.Semester,
		"g.grade_type":       key.Type,
	})
	var g grade.Grade
	err := repo.get(ctx, &g, q)
	return g, notFound(err, grade.ErrNotFound)
}

func (repo *gradeRepository) QueryGrades(ctx context.Context, filter grade.QueryFilter) ([]grade.Grade, error) {
	q := repo.selectGrades()
	for col, id := range map[string]string{
		"g.student_id":       filter.StudentID,
		"g.subject_id":       filter.SubjectID,
		"g.teacher_id":       filter.TeacherID,
		"g.academic_year_id": filter.AcademicYearID,
	} {
		if id == "" {
			continue
		}
		if !validID(id) {
			return []grade.Grade{}, nil
		}
		q = q.Where(sq.Eq{col: id})
	}
	if filter.Semester != "" {
		q = q.Where(sq.Eq{"g.semester": filter.Semester})
	}
	if filter.ClassID != "" {
		if !validID(filter.ClassID) {
			return []grade.Grade{}, nil
		}
		q = q.Where(sq.Expr("g.student_id IN (SELECT student_id FROM class_members WHERE class_id = ?)", filter.ClassID)).
			OrderBy(gradeTypeOrder, "s.name")
	} else {
		q = q.OrderBy("g.input_at DESC")
	}

	grades := make([]grade.Grade, 0)
	err := repo.selekt(ctx, &grades, q)
	return grades, err
}

func (repo *gradeRepository) UpdateGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	if !validID(g.ID) {
		return grade.Grade{}, grade.ErrNotFound
	}
	q := psql.Update("grades").
		Set("score", g.Score).
		Set("updated_at", g.UpdatedAt).
		Where(sq.Eq{"id": g.ID})
	if err := repo.execOne(ctx, q, grade.ErrNotFound); err != nil {
		return grade.Grade{}, err
	}
	return g, nil
}

func (repo *gradeRepository) DeleteGrade(ctx context.Context, id string) error {
	if !validID(id) {
		return grade.ErrNotFound
	}
	return repo.execOne(ctx, psql.Delete("grades").Where(sq.Eq{"id": id}), grade.ErrNotFound)
}
