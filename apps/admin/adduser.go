package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
)

// addUser creates a user, or updates the role and password of an existing one.
func (cli *commandLine) addUser(uname, pwd string, role user.Role) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, user.NewUser{
			Username:        uname,
			Password:        pwd,
			PasswordConfirm: pwd,
			Role:            role,
		})
		return err
	}

	_, err = cli.usrSvc.Update(ctx, usr.ID, user.UpdateUser{
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	return err
}
