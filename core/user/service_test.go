package user_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/tests"
)

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	usr := env.CreateUser(t, "Admin", user.RoleAdmin)
	assert.Equal(t, "admin", usr.Username, "usernames are stored lowercase")
	assert.NoError(t, usr.CheckPassword(testutil.Password))

	tests := []struct {
		name      string
		data      user.NewUser
		wantKind  core.ErrorKind
		wantField string
	}{
		{
			name:     "taken username",
			data:     user.NewUser{Username: "ADMIN", Password: testutil.Password, PasswordConfirm: testutil.Password, Role: user.RoleTeacher},
			wantKind: core.KindConflict,
		},
		{
			name:      "short password",
			data:      user.NewUser{Username: "guru", Password: "abc", PasswordConfirm: "abc", Role: user.RoleTeacher},
			wantKind:  core.KindInvalid,
			wantField: "password",
		},
		{
			name:      "passwords differ",
			data:      user.NewUser{Username: "guru", Password: testutil.Password, PasswordConfirm: "other-pass", Role: user.RoleTeacher},
			wantKind:  core.KindInvalid,
			wantField: "password_confirm",
		},
		{
			name:      "password like username",
			data:      user.NewUser{Username: "gurubesar", Password: "gurubesar1", PasswordConfirm: "gurubesar1", Role: user.RoleTeacher},
			wantKind:  core.KindInvalid,
			wantField: "password",
		},
		{
			name:      "unknown role",
			data:      user.NewUser{Username: "guru", Password: testutil.Password, PasswordConfirm: testutil.Password, Role: "parent"},
			wantKind:  core.KindInvalid,
			wantField: "role",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Users.Create(ctx, tt.data)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, core.KindOf(err))
			if tt.wantField != "" {
				res := core.Fail(err, env.Translator)
				assert.Contains(t, res.Fields, tt.wantField)
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	usr := env.CreateUser(t, "admin", user.RoleAdmin)

	got, err := env.Users.Authenticate(ctx, " Admin ", testutil.Password)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	for name, creds := range map[string][2]string{
		"wrong password":   {"admin", "not-the-password"},
		"unknown username": {"nobody", testutil.Password},
	} {
		_, err := env.Users.Authenticate(ctx, creds[0], creds[1])
		assert.True(t, errors.Is(err, user.ErrAuthenticationFailed), name)
		assert.Equal(t, core.KindUnauthenticated, core.KindOf(err), name)
	}
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	usr := env.CreateUser(t, "guru", user.RoleTeacher)
	env.CreateUser(t, "admin", user.RoleAdmin)

	_, err := env.Users.Update(ctx, usr.ID, user.UpdateUser{Username: "admin"})
	assert.True(t, errors.Is(err, user.ErrUsernameExists), "got %v", err)

	newPwd := "An0ther$ecret"
	got, err := env.Users.Update(ctx, usr.ID, user.UpdateUser{Role: user.RoleAdmin, Password: newPwd, PasswordConfirm: newPwd})
	require.NoError(t, err)
	assert.Equal(t, "guru", got.Username)
	assert.Equal(t, user.RoleAdmin, got.Role)

	_, err = env.Users.Authenticate(ctx, "guru", newPwd)
	assert.NoError(t, err)

	admins, err := env.Users.Query(ctx, user.QueryFilter{Role: user.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "admin", admins[0].Username)
	assert.Equal(t, "guru", admins[1].Username)
}

func TestService_Update_roleWithProfile(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	tchr := env.CreateTeacher(t, "guru", "Guru")
	stud := env.CreateStudent(t, "mwanafunzi", "Mwanafunzi")

	tests := []struct {
		name    string
		userID  string
		role    user.Role
		wantErr error
	}{
		{name: "teacher to admin", userID: tchr.UserID, role: user.RoleAdmin, wantErr: user.ErrRoleKeepsTeacherProfile},
		{name: "teacher to student", userID: tchr.UserID, role: user.RoleStudent, wantErr: user.ErrRoleKeepsTeacherProfile},
		{name: "student to teacher", userID: stud.UserID.String, role: user.RoleTeacher, wantErr: user.ErrRoleKeepsStudentProfile},
		{name: "teacher keeps role", userID: tchr.UserID, role: user.RoleTeacher},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.Users.Update(ctx, tt.userID, user.UpdateUser{Role: tt.role})
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, core.KindPrecondition, core.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, got.Role)
		})
	}

	require.NoError(t, env.Teachers.Delete(ctx, tchr.ID))
	got, err := env.Users.Update(ctx, tchr.UserID, user.UpdateUser{Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, got.Role)
}
