package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/mkowalczyk/goldvault/internal/adapter/cli"
	"github.com/mkowalczyk/goldvault/internal/config"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := config.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cli.Commands(cfg) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
