package main

import (
	"context"
	"time"

	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/user"
)

// addAdmin updates or creates an active admin account.
func (cli *commandLine) addAdmin(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:  email,
			Email: email,
		}
	}
	usr.Role = user.RoleAdmin
	usr.SetActive(true)
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}

	now := time.Now().UTC()
	usr.UpdatedAt = now
	if usr.ID == "" {
		usr.CreatedAt = now
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}
	_, err = cli.usrRepo.UpdateUser(ctx, usr, usr.IsActive)
	return err
}
