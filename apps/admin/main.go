package main

import (
	"log"
	"os"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/storage/database"
	"github.com/trezcool/shule/storage/database/inmem"
	"github.com/trezcool/shule/storage/database/postgres"
)

func main() {
	std := log.New(os.Stderr, "ADMIN : ", log.LstdFlags)

	cli := &commandLine{out: os.Stdout}

	if core.Conf.DatabaseURL == "" {
		memDB, err := inmemdb.Open()
		if err != nil {
			std.Fatal(err)
		}
		cli.usrRepo = inmemdb.NewUserRepository(memDB)
	} else {
		db, err := database.Open(core.Conf)
		if err != nil {
			std.Fatal(err)
		}
		defer db.Close()
		cli.db = db
		cli.usrRepo = postgresdb.NewUserRepository(db)
	}
	cli.usrSvc = user.NewService(cli.usrRepo, emailsvc.NewConsoleService())

	if err := cli.run(os.Args); err != nil {
		if err == errHelp {
			os.Exit(2)
		}
		std.Fatal(err)
	}
}
