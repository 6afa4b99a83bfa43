package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/teacher"
)

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

// teacher fills the owning user's fields in.
func (t tables) teacher(row teacher.Teacher) teacher.Teacher {
	usr := t.users[row.UserID]
	row.Username = usr.Username
	row.Role = usr.Role
	return row
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = newID()
	repo.db.teachers[t.ID] = t
	return t, nil
}

func (repo *teacherRepository) GetTeacher(_ context.Context, filter teacher.GetFilter) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if t, ok := repo.db.teachers[filter.ID]; ok {
			return repo.db.teacher(t), nil
		}
	case filter.UserID != "":
		for _, t := range repo.db.teachers {
			if t.UserID == filter.UserID {
				return repo.db.teacher(t), nil
			}
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) QueryTeachers(_ context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		teachers = append(teachers, repo.db.teacher(t))
	}
	if filter.NewestFirst {
		sort.Slice(teachers, func(i, j int) bool { return teachers[i].CreatedAt.After(teachers[j].CreatedAt) })
	} else {
		sort.Slice(teachers, func(i, j int) bool { return teachers[i].Name < teachers[j].Name })
	}
	if filter.Limit > 0 && len(teachers) > filter.Limit {
		teachers = teachers[:filter.Limit]
	}
	return teachers, nil
}

func (repo *teacherRepository) CountTeachers(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.teachers), nil
}

func (repo *teacherRepository) UpdateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.teachers[t.ID]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	t.UserID = orig.UserID
	t.CreatedAt = orig.CreatedAt
	repo.db.teachers[t.ID] = t
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return teacher.ErrNotFound
	}
	delete(repo.db.teachers, id)
	return nil
}

func (repo *teacherRepository) CountTeacherDependents(_ context.Context, id string) (teacher.Dependents, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var deps teacher.Dependents
	for _, c := range repo.db.classes {
		if c.HomeroomTeacherID == id {
			deps.HomeroomClasses++
		}
	}
	for _, e := range repo.db.entries {
		if e.TeacherID == id {
			deps.Schedules++
		}
	}
	for _, g := range repo.db.grades {
		if g.TeacherID == id {
			deps.Grades++
		}
	}
	return deps, nil
}
