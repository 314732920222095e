package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/auth"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/verification"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc user.Service
	gate   verification.Gate
	hasher auth.Hasher
	store  database.Store
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  addfounder -email EMAIL [-name NAME] - create the founder account or reset its password")
	_, _ = fmt.Fprintln(cli.out, "  hashpassword - print the bcrypt hash of a password")
	_, _ = fmt.Fprintln(cli.out, "  verify -teacher ID - verify a teacher account")
	_, _ = fmt.Fprintln(cli.out, "  unverify -teacher ID - revoke the verification of a teacher account")
	_, _ = fmt.Fprintln(cli.out, "  indexes - create the database indexes")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addFounderCmd := flag.NewFlagSet("addfounder", flag.ContinueOnError)
	addFounderEmail := addFounderCmd.String("email", "", "The founder's email. Must be on the admin allow-list. The password will be prompted next.")
	addFounderName := addFounderCmd.String("name", "Founder", "The founder's display name.")

	hashPasswordCmd := flag.NewFlagSet("hashpassword", flag.ContinueOnError)

	verifyCmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	verifyTeacher := verifyCmd.String("teacher", "", "The teacher's ID.")

	unverifyCmd := flag.NewFlagSet("unverify", flag.ContinueOnError)
	unverifyTeacher := unverifyCmd.String("teacher", "", "The teacher's ID.")

	indexesCmd := flag.NewFlagSet("indexes", flag.ContinueOnError)

	for _, fs := range []*flag.FlagSet{addFounderCmd, hashPasswordCmd, verifyCmd, unverifyCmd, indexesCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "addfounder":
		if err := addFounderCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addFounderEmail == "" {
			addFounderCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addFounderCmd.Usage()
			return errHelp
		}
		return cli.addFounder(*addFounderName, *addFounderEmail, pwd)
	case "hashpassword":
		if err := hashPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			hashPasswordCmd.Usage()
			return errHelp
		}
		return cli.hashPassword(pwd)
	case "verify":
		if err := verifyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *verifyTeacher == "" {
			verifyCmd.Usage()
			return errHelp
		}
		return cli.verify(*verifyTeacher, true)
	case "unverify":
		if err := unverifyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *unverifyTeacher == "" {
			unverifyCmd.Usage()
			return errHelp
		}
		return cli.verify(*unverifyTeacher, false)
	case "indexes":
		if err := indexesCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.ensureIndexes()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	return string(pwd), err
}
