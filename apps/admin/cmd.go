package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/watas/core/group"
	"github.com/trezcool/watas/core/profile"
	"github.com/trezcool/watas/core/settings"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out         io.Writer
	db          *sqlx.DB
	profileSvc  profile.Service
	settingsSvc settings.Service
	groupSvc    group.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, version, ...)")
	fmt.Fprintln(cli.out, "  setpro -id USER_ID [-off] - grant or revoke PRO on a profile")
	fmt.Fprintln(cli.out, "  setmodel -model MODEL - set the AI chat model")
	fmt.Fprintln(cli.out, "  seedgroups - insert the missing student groups")
	fmt.Fprintln(cli.out, "  hashpassword - print the bcrypt hash of the admin password, prompted next")
}

// needsDB reports whether the command in args touches the database.
func needsDB(args []string) bool {
	return len(args) > 1 && args[1] != "hashpassword"
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setProCmd := flag.NewFlagSet("setpro", flag.ContinueOnError)
	setProCmd.SetOutput(cli.out)
	setProID := setProCmd.String("id", "", "The profile (auth user) id.")
	setProOff := setProCmd.Bool("off", false, "Revoke PRO instead of granting it.")

	setModelCmd := flag.NewFlagSet("setmodel", flag.ContinueOnError)
	setModelCmd.SetOutput(cli.out)
	setModelName := setModelCmd.String("model", "", "One of: "+fmt.Sprint(settings.AllowedModels))

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "setpro":
		if err := setProCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setProID == "" {
			setProCmd.Usage()
			return errHelp
		}
		return cli.setPro(*setProID, !*setProOff)
	case "setmodel":
		if err := setModelCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setModelName == "" {
			setModelCmd.Usage()
			return errHelp
		}
		return cli.setModel(*setModelName)
	case "seedgroups":
		return cli.seedGroups()
	case "hashpassword":
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashPassword(string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
