package main

import (
	"fmt"
	"strings"

	"github.com/trezcool/shule/core/access"
)

// checkRoutes validates the access policy. A ConfigurationError here aborts
// with a non-zero exit instead of surfacing later as a broken navigation.
func (cli *commandLine) checkRoutes(file string) error {
	policy, err := loadPolicy(file)
	if err != nil {
		return err
	}

	fmt.Fprintln(cli.out, "access policy OK")
	fmt.Fprintln(cli.out, "\nviews:")
	for _, view := range policy.Views() {
		req, _ := policy.Requirement(view)
		roles := make([]string, 0, len(req.AllowedRoles))
		for _, r := range req.AllowedRoles {
			roles = append(roles, string(r))
		}
		fmt.Fprintf(cli.out, "  %-24s %s\n", view, strings.Join(roles, ", "))
	}
	fmt.Fprintln(cli.out, "\ndefaults:")
	for _, role := range access.Roles() {
		fmt.Fprintf(cli.out, "  %-24s %s\n", role, policy.DefaultView(role))
	}
	return nil
}

func loadPolicy(file string) (*access.Policy, error) {
	if file != "" {
		return access.LoadPolicyFile(file)
	}
	return access.DefaultPolicy()
}
