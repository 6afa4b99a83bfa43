package student_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/tests"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	stdUsr := env.CreateUser(t, "murid", user.RoleStudent)
	tchrUsr := env.CreateUser(t, "guru", user.RoleTeacher)

	linked, err := env.Students.Create(ctx, student.NewStudent{UserID: stdUsr.ID, Name: "Budi", NIS: "001"})
	require.NoError(t, err)
	assert.Equal(t, "murid", linked.Username.String)

	unlinked, err := env.Students.Create(ctx, student.NewStudent{Name: "Ani"})
	require.NoError(t, err)
	assert.False(t, unlinked.UserID.Valid)

	tests := []struct {
		name    string
		data    student.NewStudent
		wantErr error
	}{
		{"second profile", student.NewStudent{UserID: stdUsr.ID, Name: "Budi"}, student.ErrProfileExists},
		{"not a student", student.NewStudent{UserID: tchrUsr.ID, Name: "Budi"}, student.ErrUserNotStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Students.Create(ctx, tt.data)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	n, err := env.Students.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recent, err := env.Students.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestService_Delete(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	year := env.CreateYear(t, "2024/2025", true)
	tchr := env.CreateTeacher(t, "teacher1", "T1")
	c := env.CreateClass(t, "7A", 7, tchr.ID, year.ID)
	s := env.CreateStudent(t, "budi", "Budi")
	m := env.AddMember(t, s.ID, c.ID, year.ID)

	err := env.Students.Delete(ctx, s.ID)
	assert.True(t, errors.Is(err, student.ErrHasMemberships), "got %v", err)

	usr, err := env.Users.GetByUsername(ctx, "budi")
	require.NoError(t, err)
	assert.True(t, errors.Is(env.Users.Delete(ctx, usr.ID), user.ErrHasStudentProfile))

	require.NoError(t, env.Classes.RemoveMember(ctx, m.ID))
	require.NoError(t, env.Students.Delete(ctx, s.ID))
	require.NoError(t, env.Users.Delete(ctx, usr.ID))
}
