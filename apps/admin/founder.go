package main

import (
	"context"
	"fmt"
)

// addFounder creates the privileged founder identity, or resets its password.
func (cli *commandLine) addFounder(name, email, pwd string) error {
	usr, err := cli.usrSvc.CreateFounder(context.Background(), name, email, pwd)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "founder %s (%s) is ready\n", usr.Email, usr.ID.Hex())
	return nil
}

func (cli *commandLine) hashPassword(pwd string) error {
	hash, err := cli.hasher.Hash(pwd)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, hash)
	return nil
}
