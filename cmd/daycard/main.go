package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/marcwilhite/daycard/internal/cli"
	"github.com/marcwilhite/daycard/internal/engine"
	"github.com/marcwilhite/daycard/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Data file path (.db for SQLite, .json for JSON)." type:"path" default:"~/.config/daycard/daycard.db"`
	Profile string `help:"Profile to operate on." default:"default"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize daycard storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Plan     cli.PlanCmd     `cmd:"" help:"Generate today's decision cards."`
	Show     cli.ShowCmd     `cmd:"" help:"Show previously generated cards."`
	Load     cli.LoadCmd     `cmd:"" help:"Show the current cognitive-load estimate."`
	Feedback cli.FeedbackCmd `cmd:"" help:"Record feedback on a suggestion."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks."`
	Item     struct {
		Add     cli.ItemAddCmd     `cmd:"" help:"Add a candidate item."`
		Edit    cli.ItemEditCmd    `cmd:"" help:"Edit an item."`
		Delete  cli.ItemDeleteCmd  `cmd:"" help:"Delete an item (soft delete)."`
		Restore cli.ItemRestoreCmd `cmd:"" help:"Restore a deleted item."`
		List    cli.ItemListCmd    `cmd:"" help:"List items."`
	} `cmd:"" help:"Manage candidate items."`
	Prefs struct {
		Show  cli.PrefsShowCmd  `cmd:"" help:"Show the learned preferences."`
		Reset cli.PrefsResetCmd `cmd:"" help:"Reset preferences to defaults."`
	} `cmd:"" help:"Inspect or reset learned preferences."`
	Session struct {
		Log cli.SessionLogCmd `cmd:"" help:"Log time spent in a session."`
	} `cmd:"" help:"Record session activity."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the data file."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("daycard"),
		kong.Description("Adaptive daily recommendation engine / compressed decision cards"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// Storage backend follows the data file extension.
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Store:   store,
		Engine:  engine.New(store),
		Profile: CLI.Profile,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
