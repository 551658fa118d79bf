package main

import (
	"context"
	"fmt"

	"github.com/trezcool/shule/core/access"
	"github.com/trezcool/shule/core/session"
)

// checkAccess logs a user in through the session store and prints the gate
// decision for each registered view. Handy for answering "why can't this
// parent see the fees page?" without poking the API.
func (cli *commandLine) checkAccess(uname, pwd, view string) error {
	policy, err := loadPolicy("")
	if err != nil {
		return err
	}

	store := session.NewStore(cli.usrSvc)
	gate := access.NewGate(policy, store)

	sess, err := store.Login(context.Background(), session.Credentials{Username: uname, Password: pwd})
	if err != nil {
		return err
	}
	defer store.Logout()

	fmt.Fprintf(cli.out, "logged in as %s (%s)\n", sess.Name, sess.Role)
	fmt.Fprintf(cli.out, "default view: %s\n\n", gate.DefaultView(sess.Role))

	views := policy.Views()
	if view != "" {
		views = []access.View{access.View(view)}
	}
	for _, v := range views {
		dec, err := gate.Resolve(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "  %-24s %s\n", v, dec.Outcome)
	}
	return nil
}
