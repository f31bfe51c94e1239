package system

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailycoach/internal/backup"
	"github.com/julianstephens/dailycoach/internal/cli"
	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/keyring"
)

type DoctorCmd struct{}

// errSkipped marks a check that does not apply to the current backend.
var errSkipped = stderrors.New("not applicable")

type check struct {
	name    string
	warning bool
	run     func(*cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		fmt.Println()
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Printf("✓ Database reachable: OK\n")

	checks := []check{
		{name: "Schema version", run: checkSchemaVersion},
		{name: "Migrations complete", run: checkMigrationsComplete},
		{name: "Database integrity", run: checkIntegrity},
		{name: "Backups present", warning: true, run: checkBackupsPresent},
		{name: "Keyring available", warning: true, run: checkKeyring},
		{name: "Clock and timezone", run: func(*cli.Context) error { return checkClockTimezone(time.Now()) }},
	}

	hasError := false
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case stderrors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return ctx.Store.Ping()
}

func checkSchemaVersion(ctx *cli.Context) error {
	version, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if version < 1 {
		return fmt.Errorf("database schema is not initialized (version %d)", version)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return errSkipped
	}
	pending, err := migrator.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to count pending migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("migrations incomplete: %d pending, run '%s migrate'", pending, constants.AppName)
	}
	return nil
}

func checkIntegrity(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errSkipped
	}
	return backup.Verify(ctx.Store.GetConfigPath())
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errSkipped
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}
	return nil
}
