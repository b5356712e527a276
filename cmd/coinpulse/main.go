// Command coinpulse is a terminal client for the coinpulse API.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"coinpulse/internal/logging"
)

var (
	serverURL   = flag.String("server", envOr("COINPULSE_SERVER", "http://localhost:5000"), "base URL of the coinpulse server")
	sessionPath = flag.String("session", defaultSessionPath(), "file holding the saved session token")
	verbose     = flag.Bool("v", false, "log client warnings to stderr")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&signupCmd{}, "account")
	commander.Register(&loginCmd{}, "account")
	commander.Register(&logoutCmd{}, "account")
	commander.Register(&meCmd{}, "account")
	commander.Register(&prefsCmd{}, "account")

	commander.Register(&dashboardCmd{}, "feed")
	commander.Register(&voteCmd{}, "feed")
	commander.Register(&votesCmd{}, "feed")
	commander.Register(&tallyCmd{}, "feed")
	commander.Register(&shellCmd{}, "feed")

	flag.Parse()
	level := "error"
	if *verbose {
		level = "warn"
	}
	logging.Init(logging.Config{Level: level, Format: "console"})
	os.Exit(int(commander.Execute(context.Background())))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
