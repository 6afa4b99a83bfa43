package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (t tables) entry(row schedule.Entry) schedule.Entry {
	sub := t.subjects[row.SubjectID]
	row.TeacherName = t.teachers[row.TeacherID].Name
	row.SubjectCode = sub.Code
	row.SubjectName = sub.Name
	row.ClassName = t.classes[row.ClassID].Name
	return row
}

func sortEntries(entries []schedule.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if di, dj := entries[i].Day.Index(), entries[j].Day.Index(); di != dj {
			return di < dj
		}
		return entries[i].Start < entries[j].Start
	})
}

func (repo *scheduleRepository) CreateEntry(_ context.Context, e schedule.Entry) (schedule.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e.ID = newID()
	repo.db.entries[e.ID] = e
	return e, nil
}

func (repo *scheduleRepository) GetEntry(_ context.Context, id string) (schedule.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.entries[id]; ok {
		return repo.db.entry(e), nil
	}
	return schedule.Entry{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) QueryEntries(_ context.Context, filter schedule.QueryFilter) ([]schedule.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]schedule.Entry, 0)
	for _, e := range repo.db.entries {
		if filter.TeacherID != "" && e.TeacherID != filter.TeacherID {
			continue
		}
		if filter.ClassID != "" && e.ClassID != filter.ClassID {
			continue
		}
		if filter.SubjectID != "" && e.SubjectID != filter.SubjectID {
			continue
		}
		if filter.Day != "" && e.Day != filter.Day {
			continue
		}
		entries = append(entries, repo.db.entry(e))
	}
	sortEntries(entries)
	return entries, nil
}

func (repo *scheduleRepository) QueryDayEntries(_ context.Context, day schedule.Day, classID, teacherID string) ([]schedule.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]schedule.Entry, 0)
	for _, e := range repo.db.entries {
		if e.Day == day && (e.ClassID == classID || e.TeacherID == teacherID) {
			entries = append(entries, repo.db.entry(e))
		}
	}
	sortEntries(entries)
	return entries, nil
}

func (repo *scheduleRepository) UpdateEntry(_ context.Context, e schedule.Entry) (schedule.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.entries[e.ID]; !ok {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	repo.db.entries[e.ID] = e
	return e, nil
}

func (repo *scheduleRepository) DeleteEntry(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.entries[id]; !ok {
		return schedule.ErrNotFound
	}
	delete(repo.db.entries, id)
	return nil
}

func (repo *scheduleRepository) CountEntryAttendances(_ context.Context, id string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var n int
	for _, r := range repo.db.records {
		if r.ScheduleID == id {
			n++
		}
	}
	return n, nil
}
