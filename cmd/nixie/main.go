package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/nixie/internal/cli"
	"github.com/julianstephens/nixie/internal/cli/alarms"
	"github.com/julianstephens/nixie/internal/cli/backups"
	"github.com/julianstephens/nixie/internal/cli/settings"
	"github.com/julianstephens/nixie/internal/cli/system"
	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/errors"
	"github.com/julianstephens/nixie/internal/hw"
	"github.com/julianstephens/nixie/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config store: SQLite path, EEPROM image (*.bin), i2c:<bus>[@addr], memory:, keyring: or a PostgreSQL connection string without embedded credentials." type:"string" default:"${defaultConfig}" env:"NIXIE_CONFIG"`
	Verbose bool   `name:"debug" help:"Enable debug logging."`
	Yes     bool   `short:"y" help:"Assume yes for confirmation prompts."`

	Init    system.InitCmd      `cmd:"" help:"Initialize the config store with factory defaults."`
	Run     system.RunCmd       `cmd:"" help:"Run the clock." default:"1"`
	Show    settings.ShowCmd    `cmd:"" help:"Show current settings."`
	Set     settings.SetCmd     `cmd:"" help:"Change settings."`
	Reset   settings.ResetCmd   `cmd:"" help:"Restore factory defaults."`
	History settings.HistoryCmd `cmd:"" help:"Show previous revisions of the config record."`
	Alarm   alarms.AlarmCmd     `cmd:"" help:"Manage alarms."`
	Backup  backups.BackupCmd   `cmd:"" help:"Manage config store backups."`
	Doctor  system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Debug   system.DebugCmd     `cmd:"" help:"Debug commands for troubleshooting."`
	Keyring system.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Nixie tube clock firmware and simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"defaultConfig": constants.DefaultConfigPath,
		},
	)

	store, err := cli.OpenStore(CLI.Config, hw.OpenEEPROM)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	configDir := cli.ConfigDirFor(store)
	if err := logger.Init(logger.Config{
		Debug:     CLI.Verbose,
		ConfigDir: configDir,
		Quiet:     ctx.Command() == "run" && !CLI.Run.Hardware,
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	appCtx := cli.NewContext(store, configDir)
	appCtx.Yes = CLI.Yes

	// init manages the store itself; run creates it on first start.
	switch ctx.Command() {
	case "init":
	case "run":
		err = store.Init()
	default:
		err = store.Load()
	}
	if err != nil {
		errors.Fatal(err)
	}

	errors.Fatal(ctx.Run(appCtx))
}
