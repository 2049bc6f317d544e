package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	echoapi "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/storage/database"
)

var (
	migrateFunc = database.Run // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf      *core.Config
	db        *sql.DB
	generator *schedule.Generator
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the database")
	fmt.Fprintln(cli.out, "  generate [-owner UUID] - generate the upcoming sessions of auto-renew entries")
	fmt.Fprintln(cli.out, "  token -owner UUID [-ttl DURATION] - issue an access token for a user")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	generateCmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	generateOwner := generateCmd.String("owner", "", "Only generate the sessions of this user.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenOwner := tokenCmd.String("owner", "", "The user id the token is issued for.")
	tokenTTL := tokenCmd.Duration("ttl", 24*time.Hour, "Validity of the token.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return migrateFunc(cli.db, args[2], args[3:]...)

	case "generate":
		if err := generateCmd.Parse(args[2:]); err != nil {
			return err
		}
		var owner *uuid.UUID
		if *generateOwner != "" {
			id, err := uuid.Parse(*generateOwner)
			if err != nil {
				return fmt.Errorf("invalid owner %q: %v", *generateOwner, err)
			}
			owner = &id
		}
		return cli.generate(owner)

	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenOwner == "" {
			tokenCmd.Usage()
			return errHelp
		}
		owner, err := uuid.Parse(*tokenOwner)
		if err != nil || owner == uuid.Nil {
			return fmt.Errorf("invalid owner %q", *tokenOwner)
		}
		return cli.token(owner, *tokenTTL)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) generate(owner *uuid.UUID) error {
	count, err := cli.generator.GenerateAll(context.Background(), owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Generated %d sessions.\n", count)
	return nil
}

func (cli *commandLine) token(owner uuid.UUID, ttl time.Duration) error {
	token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, owner, ttl))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
