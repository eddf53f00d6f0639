package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lox/bigtwo/cmd/bigtwo/shared"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the Big Two table server"`
	Deal     DealCmd          `cmd:"" help:"Shuffle and deal four hands"`
	Classify ClassifyCmd      `cmd:"" help:"Show which kind of hand some cards make"`
	Beats    BeatsCmd         `cmd:"" help:"Check whether one hand beats another"`
	Join     JoinCmd          `cmd:"" help:"Take a seat at a table and play from the terminal"`
}

func main() {
	if err := shared.LoadEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "bigtwo:", err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bigtwo"),
		kong.Description("Big Two rule engine and table server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
