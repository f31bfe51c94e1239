package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailycoach/internal/cli"
	"github.com/julianstephens/dailycoach/internal/cli/backups"
	"github.com/julianstephens/dailycoach/internal/cli/system"
	"github.com/julianstephens/dailycoach/internal/config"
	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/errors"
	"github.com/julianstephens/dailycoach/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	ConfigFile string `help:"YAML config file (default: ./dailycoach.yaml when present)." type:"path" name:"config-file"`
	DB         string `help:"SQLite database path or PostgreSQL connection string. For PostgreSQL, keep passwords in .pgpass or the OS keyring." name:"db"`
	Debug      bool   `help:"Enable debug logging to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize dailycoach storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the JSON API."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with its password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a stored secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal daily habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	command := ctx.Command()

	cfg, err := config.Load(config.Options{File: CLI.ConfigFile})
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.Database = CLI.DB
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		Stderr:    strings.HasPrefix(command, "serve"),
		LogDir:    cfg.LogDir,
		ConfigDir: cli.ConfigDir(cfg),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Loaded configuration", "source", cfg.Source, "command", command)

	appCtx := &cli.Context{Config: cfg}
	keyringCmd := strings.HasPrefix(command, "keyring")

	store, err := cli.NewStore(cfg)
	if err != nil && !keyringCmd {
		errors.Fatal(err)
	}
	if err == nil {
		appCtx.Store = store
		defer store.Close()
	}

	// Init loads on its own; keyring commands never touch the database
	if !keyringCmd && !strings.HasPrefix(command, "init") {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		if appCtx.Store != nil {
			appCtx.Store.Close()
		}
		errors.Fatal(err)
	}
}
