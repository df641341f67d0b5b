package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/clubhub/core/user"
	"github.com/campushq/clubhub/storage/database"
	inmemdb "github.com/campushq/clubhub/storage/database/inmem"
	testutil "github.com/campushq/clubhub/tests"
)

func setup(t *testing.T) (*commandLine, user.Repository) {
	t.Helper()
	testutil.SetupConfig(t)

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	return &commandLine{usrRepo: usrRepo}, usrRepo
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCliTests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				if tt.wantErr != nil || tt.wantErrStr != "" {
					t.Errorf("run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
				}
				return
			}
			if tt.wantErr != nil && err != tt.wantErr {
				t.Errorf("run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErrStr != "" && err.Error() != tt.wantErrStr {
				t.Errorf("run() error = %q, wantErrStr %q", err.Error(), tt.wantErrStr)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	migrateRunFunc = func(command string, db *sqlx.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version", "fix": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION argument", command)
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}
	t.Cleanup(func() { migrateRunFunc = database.RunMigration })

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION argument"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to requires a VERSION argument"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	runCliTests(t, cli, tests)
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli, usrRepo := setup(t)

	readPasswordFunc = func(int) ([]byte, error) { return []byte("G0od#Pass123"), nil }

	tests := []cliTest{
		{name: "no args", args: []string{}, wantErr: errHelp},
		{name: "missing email", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "new admin", args: []string{"addadmin", "-email", "boss@test.test"}},
		{name: "promote existing", args: []string{"addadmin", "-email", "boss@test.test"}},
	}
	runCliTests(t, cli, tests)

	usr, err := usrRepo.GetUserByEmail(context.Background(), "boss@test.test")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if !usr.IsAdmin() {
		t.Errorf("addadmin did not grant the admin role; got %v", usr.Role)
	}
	if !usr.Active() {
		t.Error("addadmin did not activate the account")
	}
	if err := usr.CheckPassword("G0od#Pass123"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	// the row must carry real timestamps; NOT NULL datetime columns reject
	// the zero time
	if usr.CreatedAt.IsZero() {
		t.Error("addadmin left CreatedAt unset")
	}
	if usr.UpdatedAt.IsZero() {
		t.Error("addadmin left UpdatedAt unset")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "Jamie Doe", "jamie@test.test", "0ld#Pass1234", user.RoleMember, true)

	readPasswordFunc = func(int) ([]byte, error) { return []byte("N3w&Pass4567"), nil }

	tests := []cliTest{
		{name: "missing email", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "unknown email", args: []string{"resetpassword", "-email", "ghost@test.test"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}},
	}
	runCliTests(t, cli, tests)

	got, err := usrRepo.GetUserByEmail(context.Background(), usr.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if err := got.CheckPassword("N3w&Pass4567"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
}
