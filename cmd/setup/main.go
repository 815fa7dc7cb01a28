// Command setup prepares the attendance database: schema migrations, default
// users and password management.
package main

import (
	"context"
	"os"

	"github.com/labstack/gommon/log"

	"attendance/internal/config"
	"attendance/internal/database"
	"attendance/internal/repository"
)

func main() {
	logger := log.New("setup")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}

	db, err := database.Open(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	cli := commandLine{
		out:   os.Stdout,
		users: repository.NewUserRepository(db),
		migrator: func() (migrator, error) {
			return database.NewMigrator(db.DB)
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Errorf("%+v", err)
		}
		db.Close()
		os.Exit(1)
	}
}
