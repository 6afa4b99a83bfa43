package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/shule/core/academicyear"
)

type yearRepository struct {
	db *DB
}

var _ academicyear.Repository = (*yearRepository)(nil) // interface compliance check

func NewAcademicYearRepository(db *DB) academicyear.Repository {
	return &yearRepository{db: db}
}

func (repo *yearRepository) CreateYear(_ context.Context, year academicyear.AcademicYear) (academicyear.AcademicYear, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	year.ID = newID()
	repo.db.years[year.ID] = year
	return year, nil
}

func (repo *yearRepository) GetYear(_ context.Context, filter academicyear.GetFilter) (academicyear.AcademicYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if year, ok := repo.db.years[filter.ID]; ok {
			return year, nil
		}
	case filter.Period != "":
		for _, year := range repo.db.years {
			if year.Period == filter.Period {
				return year, nil
			}
		}
	case filter.Active:
		for _, year := range repo.db.years {
			if year.IsActive {
				return year, nil
			}
		}
	}
	return academicyear.AcademicYear{}, academicyear.ErrNotFound
}

func (repo *yearRepository) QueryYears(_ context.Context) ([]academicyear.AcademicYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	years := make([]academicyear.AcademicYear, 0, len(repo.db.years))
	for _, year := range repo.db.years {
		years = append(years, year)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Period > years[j].Period })
	return years, nil
}

func (repo *yearRepository) UpdateYear(_ context.Context, year academicyear.AcademicYear) (academicyear.AcademicYear, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.years[year.ID]; !ok {
		return academicyear.AcademicYear{}, academicyear.ErrNotFound
	}
	repo.db.years[year.ID] = year
	return year, nil
}

func (repo *yearRepository) DeactivateYears(_ context.Context, updatedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, year := range repo.db.years {
		if year.IsActive {
			year.IsActive = false
			year.UpdatedAt = updatedAt
			repo.db.years[id] = year
		}
	}
	return nil
}

func (repo *yearRepository) DeleteYear(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.years[id]; !ok {
		return academicyear.ErrNotFound
	}
	delete(repo.db.years, id)
	return nil
}

func (repo *yearRepository) CountYearDependents(_ context.Context, id string) (academicyear.Dependents, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var deps academicyear.Dependents
	for _, c := range repo.db.classes {
		if c.AcademicYearID == id {
			deps.Classes++
		}
	}
	for _, g := range repo.db.grades {
		if g.AcademicYearID == id {
			deps.Grades++
		}
	}
	for _, m := range repo.db.members {
		if m.AcademicYearID == id {
			deps.Memberships++
		}
	}
	return deps, nil
}
