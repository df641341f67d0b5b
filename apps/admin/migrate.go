package main

import (
	"github.com/campushq/clubhub/storage/database"
)

var migrateRunFunc = database.RunMigration // mockable

func (cli *commandLine) migrate(args []string) error {
	command := args[0]
	return migrateRunFunc(command, cli.db, args[1:]...)
}
