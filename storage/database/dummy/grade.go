package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (t tables) grade(row grade.Grade) grade.Grade {
	row.StudentName = t.students[row.StudentID].Name
	row.SubjectName = t.subjects[row.SubjectID].Name
	row.TeacherName = t.teachers[row.TeacherID].Name
	row.Period = t.years[row.AcademicYearID].Period
	return row
}

func (repo *gradeRepository) CreateGrade(_ context.Context, g grade.Grade) (grade.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	g.ID = newID()
	repo.db.grades[g.ID] = g
	return g, nil
}

func (repo *gradeRepository) GetGrade(_ context.Context, id string) (grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if g, ok := repo.db.grades[id]; ok {
		return repo.db.grade(g), nil
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) FindGrade(_ context.Context, key grade.Key) (grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, g := range repo.db.grades {
		if g.Key() == key {
			return repo.db.grade(g), nil
		}
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) QueryGrades(_ context.Context, filter grade.QueryFilter) ([]grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	grades := make([]grade.Grade, 0)
	for _, g := range repo.db.grades {
		switch {
		case filter.StudentID != "" && g.StudentID != filter.StudentID,
			filter.SubjectID != "" && g.SubjectID != filter.SubjectID,
			filter.TeacherID != "" && g.TeacherID != filter.TeacherID,
			filter.AcademicYearID != "" && g.AcademicYearID != filter.AcademicYearID,
			filter.Semester != "" && g.Semester != filter.Semester,
			filter.ClassID != "" && !repo.db.isMember(g.StudentID, filter.ClassID):
			continue
		}
		grades = append(grades, repo.db.grade(g))
	}

	if filter.ClassID != "" {
		sort.Slice(grades, func(i, j int) bool {
			if ti, tj := grades[i].Type.Index(), grades[j].Type.Index(); ti != tj {
				return ti < tj
			}
			return grades[i].StudentName < grades[j].StudentName
		})
	} else {
		sort.Slice(grades, func(i, j int) bool { return grades[i].InputAt.After(grades[j].InputAt) })
	}
	return grades, nil
}

func (repo *gradeRepository) UpdateGrade(_ context.Context, g grade.Grade) (grade.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.grades[g.ID]; !ok {
		return grade.Grade{}, grade.ErrNotFound
	}
	repo.db.grades[g.ID] = g
	return g, nil
}

func (repo *gradeRepository) DeleteGrade(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.grades[id]; !ok {
		return grade.ErrNotFound
	}
	delete(repo.db.grades, id)
	return nil
}
