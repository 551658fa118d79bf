package main

import (
	"fmt"

	"github.com/trezcool/shule/core"
)

// resetPassword installs a new password for an existing user.
func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateUser(usr, nil); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "password reset for %s\n", usr.Username)
	return nil
}
