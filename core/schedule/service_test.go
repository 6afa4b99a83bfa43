package schedule_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/tests"
)

func TestService_weeklyTimetable(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	t1 := env.CreateTeacher(t, "teacher1", "T1")
	t2 := env.CreateTeacher(t, "teacher2", "T2")
	math := env.CreateSubject(t, "MTK", "Mathematics")
	c7a := env.CreateClass(t, "7A", 7, t1.ID, year.ID)
	c7b := env.CreateClass(t, "7B", 7, t2.ID, year.ID)

	first := env.CreateEntry(t, t1.ID, math.ID, c7a.ID, schedule.Monday, "07:00", "08:30")
	assert.Equal(t, "T1", first.TeacherName)
	assert.Equal(t, "7A", first.ClassName)
	assert.Equal(t, "MTK", first.SubjectCode)

	tests := []struct {
		name    string
		entry   schedule.NewEntry
		wantErr error
	}{
		{
			name:    "same class overlapping",
			entry:   schedule.NewEntry{TeacherID: t1.ID, SubjectID: math.ID, ClassID: c7a.ID, Day: schedule.Monday, Start: "08:00", End: "09:00"},
			wantErr: schedule.ErrClassConflict,
		},
		{
			name:    "same teacher other class",
			entry:   schedule.NewEntry{TeacherID: t1.ID, SubjectID: math.ID, ClassID: c7b.ID, Day: schedule.Monday, Start: "08:00", End: "09:00"},
			wantErr: schedule.ErrTeacherConflict,
		},
		{
			name:  "back to back",
			entry: schedule.NewEntry{TeacherID: t2.ID, SubjectID: math.ID, ClassID: c7a.ID, Day: schedule.Monday, Start: "08:30", End: "09:30"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := env.Schedules.Create(ctx, tt.entry)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, core.KindConflict, core.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, e.ID)
		})
	}

	entries, err := env.Schedules.Query(ctx, schedule.QueryFilter{ClassID: c7a.ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "07:00", entries[0].Start.String())
	assert.Equal(t, "08:30", entries[1].Start.String())
}

func TestService_Create_invalid(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	sub := env.CreateSubject(t, "MTK", "Mathematics")
	c := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)

	tests := []struct {
		name     string
		entry    schedule.NewEntry
		wantKind core.ErrorKind
	}{
		{
			name:     "end before start",
			entry:    schedule.NewEntry{TeacherID: tchr.ID, SubjectID: sub.ID, ClassID: c.ID, Day: schedule.Monday, Start: "09:00", End: "08:00"},
			wantKind: core.KindInvalid,
		},
		{
			name:     "empty interval",
			entry:    schedule.NewEntry{TeacherID: tchr.ID, SubjectID: sub.ID, ClassID: c.ID, Day: schedule.Monday, Start: "09:00", End: "09:00"},
			wantKind: core.KindInvalid,
		},
		{
			name:     "unknown day",
			entry:    schedule.NewEntry{TeacherID: tchr.ID, SubjectID: sub.ID, ClassID: c.ID, Day: "funday", Start: "08:00", End: "09:00"},
			wantKind: core.KindInvalid,
		},
		{
			name:     "starts at end of day",
			entry:    schedule.NewEntry{TeacherID: tchr.ID, SubjectID: sub.ID, ClassID: c.ID, Day: schedule.Monday, Start: "24:00", End: "24:00"},
			wantKind: core.KindInvalid,
		},
		{
			name:     "unknown teacher",
			entry:    schedule.NewEntry{TeacherID: c.ID, SubjectID: sub.ID, ClassID: c.ID, Day: schedule.Monday, Start: "08:00", End: "09:00"},
			wantKind: core.KindNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Schedules.Create(ctx, tt.entry)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, core.KindOf(err))
		})
	}
}

func TestService_Create_endsAtMidnight(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	sub := env.CreateSubject(t, "MTK", "Mathematics")
	c := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)

	late := env.CreateEntry(t, tchr.ID, sub.ID, c.ID, schedule.Friday, "22:00", "24:00")
	assert.Equal(t, schedule.EndOfDay, late.End)

	got, err := env.Schedules.GetByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, "24:00", got.End.String())

	_, err = env.Schedules.Create(ctx, schedule.NewEntry{
		TeacherID: tchr.ID, SubjectID: sub.ID, ClassID: c.ID, Day: schedule.Friday, Start: "23:00", End: "24:00",
	})
	assert.True(t, errors.Is(err, schedule.ErrClassConflict), "got %v", err)
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	sub := env.CreateSubject(t, "MTK", "Mathematics")
	c := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)
	first := env.CreateEntry(t, tchr.ID, sub.ID, c.ID, schedule.Monday, "07:00", "08:00")
	second := env.CreateEntry(t, tchr.ID, sub.ID, c.ID, schedule.Monday, "08:00", "09:00")

	// moving within its own slot does not clash with itself
	e, err := env.Schedules.Update(ctx, first.ID, schedule.UpdateEntry{Start: "07:15"})
	require.NoError(t, err)
	assert.Equal(t, "07:15", e.Start.String())
	assert.Equal(t, "08:00", e.End.String())

	_, err = env.Schedules.Update(ctx, second.ID, schedule.UpdateEntry{Start: "07:45"})
	assert.True(t, errors.Is(err, schedule.ErrClassConflict), "got %v", err)

	got, err := env.Schedules.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "08:00", got.Start.String(), "failed update must leave the entry unchanged")
}

func TestService_Delete(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	sub := env.CreateSubject(t, "MTK", "Mathematics")
	c := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)
	e := env.CreateEntry(t, tchr.ID, sub.ID, c.ID, schedule.Monday, "07:00", "08:00")

	require.NoError(t, env.Schedules.Delete(ctx, e.ID))
	_, err := env.Schedules.GetByID(ctx, e.ID)
	assert.True(t, errors.Is(err, schedule.ErrNotFound))
	assert.True(t, errors.Is(env.Schedules.Delete(ctx, e.ID), schedule.ErrNotFound))
}
