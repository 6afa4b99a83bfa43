package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/class"
)

type classRepository struct {
	db *DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db}
}

func (t tables) class(row class.Class) class.Class {
	row.HomeroomTeacherName = t.teachers[row.HomeroomTeacherID].Name
	row.Period = t.years[row.AcademicYearID].Period
	row.MemberCount = 0
	for _, m := range t.members {
		if m.ClassID == row.ID {
			row.MemberCount++
		}
	}
	return row
}

func (t tables) membership(row class.Membership) class.Membership {
	row.StudentName = t.students[row.StudentID].Name
	row.ClassName = t.classes[row.ClassID].Name
	row.Period = t.years[row.AcademicYearID].Period
	return row
}

func (repo *classRepository) CreateClass(_ context.Context, c class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = newID()
	repo.db.classes[c.ID] = c
	return c, nil
}

func (repo *classRepository) GetClass(_ context.Context, id string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return repo.db.class(c), nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) QueryClasses(_ context.Context, filter class.QueryFilter) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]class.Class, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		if filter.AcademicYearID != "" && c.AcademicYearID != filter.AcademicYearID {
			continue
		}
		if filter.HomeroomTeacherID != "" && c.HomeroomTeacherID != filter.HomeroomTeacherID {
			continue
		}
		if filter.Level > 0 && c.Level != filter.Level {
			continue
		}
		classes = append(classes, repo.db.class(c))
	}
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].Level != classes[j].Level {
			return classes[i].Level < classes[j].Level
		}
		return classes[i].Name < classes[j].Name
	})
	return classes, nil
}

func (repo *classRepository) CountClasses(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.classes), nil
}

func (repo *classRepository) UpdateClass(_ context.Context, c class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.classes[c.ID]
	if !ok {
		return class.Class{}, class.ErrNotFound
	}
	c.AcademicYearID = orig.AcademicYearID
	c.CreatedAt = orig.CreatedAt
	repo.db.classes[c.ID] = c
	return c, nil
}

func (repo *classRepository) DeleteClass(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return class.ErrNotFound
	}
	delete(repo.db.classes, id)
	return nil
}

func (repo *classRepository) CountClassDependents(_ context.Context, id string) (class.Dependents, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var deps class.Dependents
	for _, m := range repo.db.members {
		if m.ClassID == id {
			deps.Memberships++
		}
	}
	for _, e := range repo.db.entries {
		if e.ClassID == id {
			deps.Schedules++
		}
	}
	return deps, nil
}

// Memberships

func (repo *classRepository) CreateMembership(_ context.Context, m class.Membership) (class.Membership, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	m.ID = newID()
	repo.db.members[m.ID] = m
	return m, nil
}

func (repo *classRepository) GetMembership(_ context.Context, id string) (class.Membership, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.members[id]; ok {
		return repo.db.membership(m), nil
	}
	return class.Membership{}, class.ErrMembershipNotFound
}

func (repo *classRepository) FindMembership(_ context.Context, studentID, classID, yearID string) (class.Membership, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, m := range repo.db.members {
		if m.StudentID == studentID && m.ClassID == classID && m.AcademicYearID == yearID {
			return repo.db.membership(m), nil
		}
	}
	return class.Membership{}, class.ErrMembershipNotFound
}

func (repo *classRepository) QueryMemberships(_ context.Context, filter class.MembershipFilter) ([]class.Membership, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := make([]class.Membership, 0)
	for _, m := range repo.db.members {
		if filter.StudentID != "" && m.StudentID != filter.StudentID {
			continue
		}
		if filter.ClassID != "" && m.ClassID != filter.ClassID {
			continue
		}
		if filter.AcademicYearID != "" && m.AcademicYearID != filter.AcademicYearID {
			continue
		}
		members = append(members, repo.db.membership(m))
	}
	sort.Slice(members, func(i, j int) bool { return members[i].StudentName < members[j].StudentName })
	return members, nil
}

func (repo *classRepository) DeleteMembership(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.members[id]; !ok {
		return class.ErrMembershipNotFound
	}
	delete(repo.db.members, id)
	return nil
}
