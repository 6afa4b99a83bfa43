package class_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/tests"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")

	c := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)
	assert.Equal(t, "T1", c.HomeroomTeacherName)
	assert.Equal(t, "2024/2025", c.Period)

	tests := []struct {
		name     string
		data     class.NewClass
		wantKind core.ErrorKind
	}{
		{"unknown teacher", class.NewClass{Name: "7B", Level: 7, HomeroomTeacherID: year.ID, AcademicYearID: year.ID}, core.KindNotFound},
		{"unknown year", class.NewClass{Name: "7B", Level: 7, HomeroomTeacherID: tchr.ID, AcademicYearID: tchr.ID}, core.KindNotFound},
		{"level out of range", class.NewClass{Name: "7B", Level: 13, HomeroomTeacherID: tchr.ID, AcademicYearID: year.ID}, core.KindInvalid},
		{"no name", class.NewClass{Level: 7, HomeroomTeacherID: tchr.ID, AcademicYearID: year.ID}, core.KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Classes.Create(ctx, tt.data)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, core.KindOf(err))
		})
	}
}

func TestService_QueryActive(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	old := env.CreateYear(t, "2023/2024", false)
	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	env.CreateClass(t, "7A", 7, tchr.ID, year.ID)
	env.CreateClass(t, "8A", 8, tchr.ID, year.ID)
	env.CreateClass(t, "7Z", 7, tchr.ID, old.ID)

	classes, err := env.Classes.QueryActive(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, classes, 2)

	classes, err = env.Classes.QueryActive(ctx, 7)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "7A", classes[0].Name)

	n, err := env.Classes.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestService_memberships(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	old := env.CreateYear(t, "2023/2024", false)
	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	c := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)
	s := env.CreateStudent(t, "", "Budi")

	m := env.AddMember(t, s.ID, c.ID, year.ID)
	assert.Equal(t, "Budi", m.StudentName)
	assert.Equal(t, "7A", m.ClassName)
	assert.Equal(t, "2024/2025", m.Period)

	got, err := env.Classes.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MemberCount)

	tests := []struct {
		name    string
		data    class.NewMembership
		wantErr error
	}{
		{"twice", class.NewMembership{StudentID: s.ID, ClassID: c.ID, AcademicYearID: year.ID}, class.ErrAlreadyMember},
		{"other year", class.NewMembership{StudentID: s.ID, ClassID: c.ID, AcademicYearID: old.ID}, class.ErrYearMismatch},
		{"unknown student", class.NewMembership{StudentID: c.ID, ClassID: c.ID, AcademicYearID: year.ID}, student.ErrNotFound},
		{"unknown class", class.NewMembership{StudentID: s.ID, ClassID: s.ID, AcademicYearID: year.ID}, class.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Classes.AddMember(ctx, tt.data)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	ok, err := env.Classes.IsMember(ctx, s.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	err = env.Classes.Delete(ctx, c.ID)
	assert.True(t, errors.Is(err, class.ErrHasMembers), "got %v", err)

	require.NoError(t, env.Classes.RemoveMember(ctx, m.ID))
	ok, err = env.Classes.IsMember(ctx, s.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(env.Classes.RemoveMember(ctx, m.ID), class.ErrMembershipNotFound))
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	t1 := env.CreateTeacher(t, "teacher1", "T1")
	t2 := env.CreateTeacher(t, "teacher2", "T2")
	c := env.CreateClass(t, "7A", 7, t1.ID, year.ID)

	got, err := env.Classes.Update(ctx, c.ID, class.UpdateClass{HomeroomTeacherID: t2.ID, Level: 8})
	require.NoError(t, err)
	assert.Equal(t, "T2", got.HomeroomTeacherName)
	assert.Equal(t, 8, got.Level)
	assert.Equal(t, "7A", got.Name)
	assert.Equal(t, year.ID, got.AcademicYearID)

	_, err = env.Classes.Update(ctx, c.ID, class.UpdateClass{HomeroomTeacherID: year.ID})
	assert.True(t, errors.Is(err, teacher.ErrNotFound), "got %v", err)
}
