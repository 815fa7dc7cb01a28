package main

import (
	"fmt"
)

func (cli *commandLine) migrate(command string) error {
	switch command {
	case "up", "down", "version":
	default:
		return fmt.Errorf("%q: no such command", command)
	}

	m, err := cli.migrator()
	if err != nil {
		return err
	}

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "migrations applied")
	case "down":
		if err := m.Down(); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "last migration rolled back")
	case "version":
		version, dirty, ok, err := m.Version()
		if err != nil {
			return err
		}
		switch {
		case !ok:
			fmt.Fprintln(cli.out, "no migration applied")
		case dirty:
			fmt.Fprintf(cli.out, "version %d (dirty)\n", version)
		default:
			fmt.Fprintf(cli.out, "version %d\n", version)
		}
	}
	return nil
}
