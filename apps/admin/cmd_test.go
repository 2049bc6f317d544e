package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
	"github.com/trezcool/mahudhurio/tests"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

type fixture struct {
	cli   *commandLine
	db    *inmemdb.DB
	out   *bytes.Buffer
	today civil.Date
}

func setup(t *testing.T) *fixture {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	f := &fixture{db: db, out: new(bytes.Buffer), today: testutil.Date(t, "2024-01-01")}
	generator := schedule.NewGenerator(inmemdb.NewSessionRepository(db), inmemdb.NewTimetableRepository(db), schedule.DefaultHorizon)
	generator.Today = func() civil.Date { return f.today }

	f.cli = &commandLine{
		conf:      core.NewConfig(),
		generator: generator,
		out:       f.out,
	}
	return f
}

func (f *fixture) run(t *testing.T, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			f.out.Reset()
			err := f.cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				require.NoError(t, err)
				if tt.wantOut != "" {
					assert.Equal(t, tt.wantOut, f.out.String())
				}
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	f := setup(t)
	f.run(t, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	})
	assert.True(t, strings.HasPrefix(f.out.String(), "Usage:"))
}

func Test_commandLine_migrate(t *testing.T) {
	f := setup(t)

	var ran []string
	migrateFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, strings.TrimSpace(command+" "+strings.Join(args, " ")))
		return nil
	}

	f.run(t, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "reset", args: []string{"migrate", "reset"}},
	})
	assert.Equal(t, []string{"up", "up-to 1", "status", "reset"}, ran)
}

func Test_commandLine_generate(t *testing.T) {
	f := setup(t)
	owner := uuid.New()
	sub := testutil.CreateSubject(t, inmemdb.NewSubjectRepository(f.db), owner, "Maths")
	other := testutil.CreateSubject(t, inmemdb.NewSubjectRepository(f.db), uuid.New(), "Art")
	entries := inmemdb.NewTimetableRepository(f.db)
	testutil.CreateEntry(t, entries, sub, 0, testutil.Date(t, "2024-01-01"), nil)   // Mondays
	testutil.CreateEntry(t, entries, other, 2, testutil.Date(t, "2024-01-01"), nil) // Wednesdays

	f.run(t, []cliTest{
		{name: "invalid owner", args: []string{"generate", "-owner", "lol"}, wantErrStr: `invalid owner "lol": invalid UUID length: 3`},
		{name: "single owner", args: []string{"generate", "-owner", owner.String()}, wantOut: "Generated 5 sessions.\n"},
		{name: "everyone", args: []string{"generate"}, wantOut: "Generated 4 sessions.\n"},
		{name: "nothing left", args: []string{"generate"}, wantOut: "Generated 0 sessions.\n"},
	})
}

func Test_commandLine_token(t *testing.T) {
	f := setup(t)
	owner := uuid.New()

	f.run(t, []cliTest{
		{name: "owner required", args: []string{"token"}, wantErr: errHelp},
		{name: "nil owner", args: []string{"token", "-owner", uuid.Nil.String()}, wantErrStr: fmt.Sprintf("invalid owner %q", uuid.Nil.String())},
		{name: "token", args: []string{"token", "-owner", owner.String(), "-ttl", "1h"}},
	})

	var claims echoapi.Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(f.out.String()), &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(f.cli.conf.SecretKey), nil
	})
	require.NoError(t, err)
	assert.Equal(t, owner.String(), claims.Subject)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), claims.ExpiresAt, 5)
}
