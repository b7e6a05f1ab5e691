package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Run the blackjack table server"`
	Play     PlayCmd          `cmd:"" help:"Play at a local table in the terminal"`
	Bot      BotCmd           `cmd:"" help:"Connect a bot to a running server"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate rounds with a fixed policy"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjackforbots"),
		kong.Description("Blackjack table server and simulator for bot play"),
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
