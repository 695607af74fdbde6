package main

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/storage/database"
	testutil "github.com/onnetwireless/dashboard/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.App) {
	app := testutil.NewApp(t)
	return &commandLine{reportSvc: app.Reports}, app
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), tt.wantErrStr)
		}
	default:
		assert.NoError(t, err)
	}
}

func readRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func Test_commandLine_run(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErrStr: `unknown command "lol"`},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var gotCommand string
	var gotArgs []string
	t.Cleanup(func() { migrateFunc = database.Migrate })
	migrateFunc = func(ctx context.Context, db *sql.DB, command string, args ...string) error {
		gotCommand, gotArgs = command, args
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "customer_notes", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	require.NoError(t, cli.run([]string{"admin", "migrate", "create", "customer_notes", "sql"}))
	assert.Equal(t, "create", gotCommand)
	assert.Equal(t, []string{"customer_notes", "sql"}, gotArgs)
}

func Test_commandLine_debtors(t *testing.T) {
	cli, app := setup(t)
	dir := t.TempDir()

	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.NewDate(2024, time.January, 10))
	out := filepath.Join(dir, "debtors.xlsx")

	tests := []cliTest{
		{name: "invalid date", args: []string{"debtors", "--as-of", "lol"}, wantErrStr: "invalid --as-of"},
		{name: "unexpected args", args: []string{"debtors", "lol"}, wantErrStr: "unknown command"},
		{name: "export", args: []string{"debtors", "--as-of", "2024-03-10", "--out", out}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	rows := readRows(t, out, "Debtors")
	require.Greater(t, len(rows), 4)
	assert.Contains(t, rows[4], ana.Name)
}

func Test_commandLine_payments(t *testing.T) {
	cli, app := setup(t)
	dir := t.TempDir()

	ana := testutil.CreateCustomer(t, app.CustomerRepo, "Ana Gómez", "1001", "20.00", core.NewDate(2024, time.January, 10))
	p := testutil.PayMonth(t, app.Payments, ana.ID, core.NewPeriod(2024, time.January), time.Date(2024, time.February, 3, 9, 0, 0, 0, time.UTC))
	out := filepath.Join(dir, "payments.xlsx")

	tests := []cliTest{
		{name: "no range", args: []string{"payments"}, wantErrStr: "required flag"},
		{name: "no end", args: []string{"payments", "--from", "2024-02-01"}, wantErrStr: "required flag"},
		{name: "invalid start", args: []string{"payments", "--from", "lol", "--to", "2024-02-29"}, wantErrStr: "invalid --from"},
		{name: "reversed range", args: []string{"payments", "--from", "2024-02-29", "--to", "2024-02-01"}, wantErrStr: "--to must not be before --from"},
		{name: "export", args: []string{"payments", "--from", "2024-02-01", "--to", "2024-02-29", "-o", out}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	rows := readRows(t, out, "Payments")
	require.Greater(t, len(rows), 4)
	assert.Contains(t, rows[4], p.ReceiptNumber)
	assert.Contains(t, rows[4], ana.Name)
}

func Test_commandLine_invalidDateKeepsCause(t *testing.T) {
	cli, _ := setup(t)

	err := cli.run([]string{"admin", "debtors", "--as-of", "lol"})
	require.Error(t, err)
	_, parseErr := core.ParseDate("lol")
	assert.Equal(t, parseErr.Error(), errors.Cause(err).Error())
	assert.Equal(t, "invalid --as-of: "+parseErr.Error(), err.Error())
}
