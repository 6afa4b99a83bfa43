package dummydb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (t tables) student(row student.Student) student.Student {
	row.Username = null.String{}
	if row.UserID.Valid {
		if usr, ok := t.users[row.UserID.String]; ok {
			row.Username = null.StringFrom(usr.Username)
		}
	}
	return row
}

func (t tables) isMember(studentID, classID string) bool {
	for _, m := range t.members {
		if m.StudentID == studentID && m.ClassID == classID {
			return true
		}
	}
	return false
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = newID()
	repo.db.students[s.ID] = s
	return s, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, filter student.GetFilter) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if s, ok := repo.db.students[filter.ID]; ok {
			return repo.db.student(s), nil
		}
	case filter.UserID != "":
		for _, s := range repo.db.students {
			if s.UserID.Valid && s.UserID.String == filter.UserID {
				return repo.db.student(s), nil
			}
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		if filter.ClassID != "" && !repo.db.isMember(s.ID, filter.ClassID) {
			continue
		}
		students = append(students, repo.db.student(s))
	}
	if filter.NewestFirst {
		sort.Slice(students, func(i, j int) bool { return students[i].CreatedAt.After(students[j].CreatedAt) })
	} else {
		sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	}
	if filter.Limit > 0 && len(students) > filter.Limit {
		students = students[:filter.Limit]
	}
	return students, nil
}

func (repo *studentRepository) CountStudents(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.students), nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.students[s.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s.UserID = orig.UserID
	s.CreatedAt = orig.CreatedAt
	repo.db.students[s.ID] = s
	return s, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.students, id)
	return nil
}

func (repo *studentRepository) CountStudentDependents(_ context.Context, id string) (student.Dependents, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var deps student.Dependents
	for _, m := range repo.db.members {
		if m.StudentID == id {
			deps.Memberships++
		}
	}
	for _, r := range repo.db.records {
		if r.StudentID == id {
			deps.Attendances++
		}
	}
	for _, g := range repo.db.grades {
		if g.StudentID == id {
			deps.Grades++
		}
	}
	return deps, nil
}
