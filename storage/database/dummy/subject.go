package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub.ID = newID()
	repo.db.subjects[sub.ID] = sub
	return sub, nil
}

func (repo *subjectRepository) GetSubject(_ context.Context, filter subject.GetFilter) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if sub, ok := repo.db.subjects[filter.ID]; ok {
			return sub, nil
		}
	case filter.Code != "":
		for _, sub := range repo.db.subjects {
			if sub.Code == filter.Code {
				return sub, nil
			}
		}
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) QuerySubjects(_ context.Context) ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := make([]subject.Subject, 0, len(repo.db.subjects))
	for _, sub := range repo.db.subjects {
		subjects = append(subjects, sub)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.subjects[sub.ID]; !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	repo.db.subjects[sub.ID] = sub
	return sub, nil
}

func (repo *subjectRepository) DeleteSubject(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.subjects[id]; !ok {
		return subject.ErrNotFound
	}
	delete(repo.db.subjects, id)
	return nil
}

func (repo *subjectRepository) CountSubjectDependents(_ context.Context, id string) (subject.Dependents, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var deps subject.Dependents
	for _, e := range repo.db.entries {
		if e.SubjectID == id {
			deps.Schedules++
		}
	}
	for _, g := range repo.db.grades {
		if g.SubjectID == id {
			deps.Grades++
		}
	}
	return deps, nil
}
