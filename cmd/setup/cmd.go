package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"attendance/internal/entity"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type userStore interface {
	GetByUsername(ctx context.Context, username string) (entity.User, error)
	Create(ctx context.Context, u entity.User) (entity.User, error)
	Update(ctx context.Context, u entity.User) error
	GetCredentials(ctx context.Context, userID int) (entity.AuthCredentials, error)
	CreateCredentials(ctx context.Context, userID int, passwordHash string) error
	SetPassword(ctx context.Context, userID int, passwordHash string) error
}

type migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, ok bool, err error)
}

type commandLine struct {
	out      io.Writer
	users    userStore
	migrator func() (migrator, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate up|down|version                          - apply, roll back or show schema migrations")
	fmt.Fprintln(cli.out, "  seed                                             - create the default users")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME -name NAME -role ROLE - create or update a user, the password is prompted")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserName := addUserCmd.String("username", "", "Login name of the user.")
	addUserFullName := addUserCmd.String("name", "", "Display name. Defaults to the username for new users.")
	addUserRole := addUserCmd.String("role", "", "student or teacher.")

	ctx := context.Background()

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2])
	case "seed":
		return cli.seed(ctx)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		role := entity.Role(*addUserRole)
		if *addUserName == "" || !role.Valid() {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(ctx, *addUserName, *addUserFullName, role, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
