package teacher_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/tests"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	tchrUsr := env.CreateUser(t, "guru", user.RoleTeacher)
	stdUsr := env.CreateUser(t, "murid", user.RoleStudent)

	tchr, err := env.Teachers.Create(ctx, teacher.NewTeacher{UserID: tchrUsr.ID, Name: "  Ibu Sari ", NIP: "1987"})
	require.NoError(t, err)
	assert.Equal(t, "Ibu Sari", tchr.Name)
	assert.Equal(t, "guru", tchr.Username)
	assert.Equal(t, "1987", tchr.NIP.String)
	assert.False(t, tchr.Phone.Valid)

	tests := []struct {
		name    string
		data    teacher.NewTeacher
		wantErr error
	}{
		{"second profile", teacher.NewTeacher{UserID: tchrUsr.ID, Name: "Sari"}, teacher.ErrProfileExists},
		{"not a teacher", teacher.NewTeacher{UserID: stdUsr.ID, Name: "Sari"}, teacher.ErrUserNotTeacher},
		{"unknown user", teacher.NewTeacher{UserID: tchr.ID, Name: "Sari"}, user.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Teachers.Create(ctx, tt.data)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	n, err := env.Teachers.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	byUser, err := env.Teachers.GetByUserID(ctx, tchrUsr.ID)
	require.NoError(t, err)
	assert.Equal(t, tchr.ID, byUser.ID)
}

func TestService_Delete(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	t1 := env.CreateTeacher(t, "teacher1", "T1")
	t2 := env.CreateTeacher(t, "teacher2", "T2")
	sub := env.CreateSubject(t, "MTK", "Mathematics")
	c := env.CreateClass(t, "7A", 7, t1.ID, year.ID)
	e := env.CreateEntry(t, t2.ID, sub.ID, c.ID, schedule.Monday, "07:00", "08:00")

	err := env.Teachers.Delete(ctx, t1.ID)
	assert.True(t, errors.Is(err, teacher.ErrIsHomeroomTeacher), "got %v", err)
	err = env.Teachers.Delete(ctx, t2.ID)
	assert.True(t, errors.Is(err, teacher.ErrHasSchedules), "got %v", err)
	assert.Equal(t, core.KindDependency, core.KindOf(err))

	require.NoError(t, env.Schedules.Delete(ctx, e.ID))
	require.NoError(t, env.Teachers.Delete(ctx, t2.ID))

	// the account can go once its profile is gone
	usr, err := env.Users.GetByUsername(ctx, "teacher1")
	require.NoError(t, err)
	err = env.Users.Delete(ctx, usr.ID)
	assert.True(t, errors.Is(err, user.ErrHasTeacherProfile), "got %v", err)
	usr2, err := env.Users.GetByUsername(ctx, "teacher2")
	require.NoError(t, err)
	require.NoError(t, env.Users.Delete(ctx, usr2.ID))
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	tchr := env.CreateTeacher(t, "teacher1", "T1")
	name, phone := "Pak Budi", "0812"

	got, err := env.Teachers.Update(ctx, tchr.ID, teacher.UpdateTeacher{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Pak Budi", got.Name)
	assert.Equal(t, "0812", got.Phone.String)
	assert.Equal(t, tchr.UserID, got.UserID)

	_, err = env.Teachers.Update(ctx, "unknown", teacher.UpdateTeacher{Name: &name})
	assert.True(t, errors.Is(err, teacher.ErrNotFound))
}
