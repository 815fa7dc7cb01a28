package main

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"attendance/internal/entity"
	"attendance/internal/password"
	"attendance/internal/repository"
)

type seedUser struct {
	entity.User
	password string
}

var defaultUsers = []seedUser{
	{User: entity.User{ID: 1001, Username: "han1001", Name: "Hannah Instructor", Role: entity.RoleTeacher}, password: "HannahPass123"},
	{User: entity.User{ID: 1002, Username: "ian1002", Name: "Ian Instructor", Role: entity.RoleTeacher}, password: "IanPass123"},
	{User: entity.User{ID: 1003, Username: "jac1003", Name: "Jack Student", Role: entity.RoleStudent}, password: "JackPass123"},
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// seed creates the default users that are missing. Existing credentials are
// never overwritten.
func (cli *commandLine) seed(ctx context.Context) error {
	for _, su := range defaultUsers {
		usr, err := cli.seedUser(ctx, su.User)
		if err != nil {
			return err
		}

		_, err = cli.users.GetCredentials(ctx, usr.ID)
		switch {
		case err == nil:
			fmt.Fprintf(cli.out, "%s already has credentials\n", usr.Username)
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		hash, err := password.Hash(su.password)
		if err != nil {
			return err
		}
		if err := cli.users.CreateCredentials(ctx, usr.ID, hash); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "password set for %s\n", usr.Username)
	}
	fmt.Fprintln(cli.out, "seed completed")
	return nil
}

func (cli *commandLine) seedUser(ctx context.Context, u entity.User) (entity.User, error) {
	usr, err := cli.users.GetByUsername(ctx, u.Username)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return entity.User{}, err
	}

	usr, err = cli.users.Create(ctx, u)
	if isUniqueViolation(err) {
		// created by someone else in the meantime
		return cli.users.GetByUsername(ctx, u.Username)
	}
	if err != nil {
		return entity.User{}, err
	}
	fmt.Fprintf(cli.out, "created user %s (id %d)\n", usr.Username, usr.ID)
	return usr, nil
}
