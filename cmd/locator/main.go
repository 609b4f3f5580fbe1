package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/cli/backups"
	"github.com/feedingfoundation/locator/internal/cli/locations"
	"github.com/feedingfoundation/locator/internal/cli/system"
	"github.com/feedingfoundation/locator/internal/config"
	"github.com/feedingfoundation/locator/internal/constants"
	apperrors "github.com/feedingfoundation/locator/internal/errors"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/schedule"
	"github.com/feedingfoundation/locator/internal/storage/postgres"
	"github.com/feedingfoundation/locator/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Data     string `help:"Locations file (.json or .db) or PostgreSQL connection string. Connection strings given here must NOT contain a password; use the keyring, LOCATOR_DB_CONNECTION or .pgpass instead." placeholder:"PATH|URL"`
	Timezone string `help:"IANA timezone used to decide what is open now (default: LOCATOR_TIMEZONE or the system zone)."`
	Debug    bool   `help:"Log debug output to stderr."`

	Init       system.InitCmd       `cmd:"" help:"Initialize locator storage."`
	Tui        system.TuiCmd        `cmd:"" help:"Browse locations interactively." default:"1"`
	Add        locations.AddCmd     `cmd:"" help:"Add a location."`
	List       locations.ListCmd    `cmd:"" help:"List locations with their open-now status."`
	Status     locations.StatusCmd  `cmd:"" help:"Show whether a location is open now."`
	Parse      locations.ParseCmd   `cmd:"" help:"Show how a schedule text is understood."`
	Delete     locations.DeleteCmd  `cmd:"" help:"Delete or deactivate a location."`
	Pregeocode system.PregeocodeCmd `cmd:"" help:"Look up coordinates for locations that have none."`
	Validate   system.ValidateCmd   `cmd:"" help:"Check location data for problems."`
	Serve      system.ServeCmd      `cmd:"" help:"Serve the locations over HTTP."`
	Keyring    system.KeyringCmd    `cmd:"" help:"Manage secrets in the OS keyring."`
	Backup     struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups of the locations file."`
}

// Commands that run without a loaded store.
var noStoreCommands = map[string]bool{
	"init":    true,
	"parse":   true,
	"keyring": true,
}

func main() {
	vars := kong.Vars{"version": constants.Version}
	for k, v := range system.Vars() {
		vars[k] = v
	}
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Find food assistance locations and whether they are open now"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		vars,
	)

	configDir, err := utils.ExpandHome(filepath.Dir(constants.DefaultDataPath))
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	env := config.LoadEnv()

	tz, err := utils.LoadLocation(env.TimezoneOr(CLI.Timezone))
	if err != nil {
		apperrors.Fatal(err)
	}

	data, source := env.DataLocation(CLI.Data)
	if !postgres.IsConnString(data) {
		if data, err = utils.ExpandHome(data); err != nil {
			apperrors.Fatal(err)
		}
	}
	logger.Debug("resolved data location", "source", source, "timezone", tz.String())

	store, err := cli.OpenStore(data, source)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:    store,
		Env:      env,
		Location: tz,
		Memo:     schedule.NewMemo(),
	}

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !noStoreCommands[command[0]] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("failed to close store", "error", closeErr)
	}
	apperrors.Fatal(err)
}
