package main

import (
	"context"
	"log"
	"os"

	dig_container "github.com/yashshrivastavagit/Aumryx-Teach/apps/api/di/dig"
	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/auth"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/verification"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

func main() {
	c := dig_container.New()

	var code int
	err := c.Invoke(func(
		logger core.Logger,
		usrSvc user.Service,
		gate verification.Gate,
		hasher auth.Hasher,
		store database.Store,
	) {
		defer func() { _ = store.Close(context.Background()) }()

		cli := commandLine{
			usrSvc: usrSvc,
			gate:   gate,
			hasher: hasher,
			store:  store,
			out:    os.Stdout,
		}
		if err := cli.run(os.Args); err != nil {
			if err != errHelp {
				logger.Error("admin command failed", err)
			}
			code = 1
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(code)
}
