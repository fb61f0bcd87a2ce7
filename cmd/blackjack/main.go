package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play at the console"`
	TUI      TUICmd           `cmd:"tui" help:"Play in the full-screen terminal interface"`
	Simulate SimulateCmd      `cmd:"" help:"Play rounds with every seat automated"`
	Serve    ServeCmd         `cmd:"" help:"Run an automated table with a websocket spectator feed"`
	History  HistoryCmd       `cmd:"" help:"Inspect recorded rounds"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("A blackjack table for humans and bots"),
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
