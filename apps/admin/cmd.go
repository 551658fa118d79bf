package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/shule/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB // nil when running on the in-memory store
	usrRepo user.Repository
	usrSvc  user.Service
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -name NAME -role ROLE [-school SCHOOL] [-username USERNAME] [-email EMAIL] - create or update a user; password prompted")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME|EMAIL - reset user's password")
	fmt.Fprintln(cli.out, "  migrate - apply pending database migrations")
	fmt.Fprintln(cli.out, "  checkroutes [-file PATH] - validate the access policy and print the table")
	fmt.Fprintln(cli.out, "  checkaccess -username USERNAME|EMAIL [-view VIEW] - log in and print gate decisions; password prompted")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "adduser":
		addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
		name := addUserCmd.String("name", "", "The user's full name.")
		uname := addUserCmd.String("username", "", "The user's username.")
		email := addUserCmd.String("email", "", "The user's email.")
		role := addUserCmd.String("role", "", "The user's role.")
		school := addUserCmd.String("school", "", "The user's school ID (all roles but system_admin).")
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *name == "" || *role == "" || (*uname == "" && *email == "") {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.addUser(*name, *uname, *email, *role, *school, pwd)

	case "resetpassword":
		resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
		uname := resetPasswordCmd.String("username", "", "The user's username or email. The password will be prompted next.")
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *uname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.resetPassword(*uname, pwd)

	case "migrate":
		return cli.migrate()

	case "checkroutes":
		checkRoutesCmd := flag.NewFlagSet("checkroutes", flag.ExitOnError)
		file := checkRoutesCmd.String("file", "", "Path to a policy file; the built-in policy is checked when omitted.")
		if err := checkRoutesCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.checkRoutes(*file)

	case "checkaccess":
		checkAccessCmd := flag.NewFlagSet("checkaccess", flag.ExitOnError)
		uname := checkAccessCmd.String("username", "", "The user's username or email. The password will be prompted next.")
		view := checkAccessCmd.String("view", "", "A single view to check; all views when omitted.")
		if err := checkAccessCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *uname == "" {
			checkAccessCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.checkAccess(*uname, pwd, *view)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
