package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/access"
	"github.com/trezcool/shule/core/user"
)

// addUser updates or creates a user.User.
func (cli *commandLine) addUser(name, uname, email, roleStr, schoolID, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	role, err := access.ParseRole(core.CleanString(roleStr, true /* lower */))
	if err != nil {
		return err
	}
	if role.RequiresSchool() && schoolID == "" {
		return fmt.Errorf("role %q requires -school", role)
	}

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if err == user.ErrNotFound && email != "" {
		usr, err = cli.usrRepo.GetUserByUsernameOrEmail(email)
	}
	switch err {
	case nil:
		usr.Name = name
		usr.Role = role
		usr.SchoolID = schoolID
		usr.UpdatedAt = time.Now().UTC()
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		active := true
		_, err = cli.usrRepo.UpdateUser(usr, &active)
		return err
	case user.ErrNotFound:
		now := time.Now().UTC()
		usr = user.User{
			ID:        uuid.New().String(),
			Name:      name,
			Username:  uname,
			Email:     email,
			Role:      role,
			SchoolID:  schoolID,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	default:
		return err
	}
}
