package main

import (
	"context"
	"fmt"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

// verify runs the verification gate on the teacher identified by hexID.
func (cli *commandLine) verify(hexID string, verified bool) error {
	id, err := core.ParseID(hexID, "teacher")
	if err != nil {
		return err
	}
	ctx := context.Background()
	if verified {
		if err = cli.gate.Verify(ctx, id); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cli.out, "teacher %s verified\n", id.Hex())
		return nil
	}
	if err = cli.gate.Unverify(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "teacher %s unverified\n", id.Hex())
	return nil
}

func (cli *commandLine) ensureIndexes() error {
	if err := cli.store.EnsureIndexes(context.Background()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, "indexes are up to date")
	return nil
}
