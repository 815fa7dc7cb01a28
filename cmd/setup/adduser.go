package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"attendance/internal/entity"
	"attendance/internal/password"
	"attendance/internal/repository"
)

// addUser updates or creates a user and replaces its password.
func (cli *commandLine) addUser(ctx context.Context, username, name string, role entity.Role, pwd string) error {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)

	hash, err := password.Hash(pwd)
	if err != nil {
		return err
	}

	usr, err := cli.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if name != "" {
			usr.Name = name
		}
		usr.Role = role
		if err := cli.users.Update(ctx, usr); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "updated user %s (id %d)\n", usr.Username, usr.ID)
	case errors.Is(err, repository.ErrNotFound):
		if name == "" {
			name = username
		}
		usr, err = cli.users.Create(ctx, entity.User{Username: username, Name: name, Role: role})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "created user %s (id %d)\n", usr.Username, usr.ID)
	default:
		return err
	}

	return cli.users.SetPassword(ctx, usr.ID, hash)
}
