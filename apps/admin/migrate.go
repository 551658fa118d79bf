package main

import (
	"errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/database"
)

func (cli *commandLine) migrate() error {
	if cli.db == nil {
		return errors.New("migrate requires a configured database")
	}
	return database.Migrate(cli.db.DB, core.Conf)
}
