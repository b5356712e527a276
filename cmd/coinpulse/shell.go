package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"coinpulse/pkg/client"
)

// shellCmd keeps one Voter alive across commands so votes paint
// immediately, even while the server is unreachable.
type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "interactive feed with optimistic voting" }
func (*shellCmd) Usage() string {
	return `coinpulse shell

  Commands:
    dash                     show the dashboard
    up <type> <item>         vote up
    down <type> <item>       vote down
    tally <type> <item>      count votes
    reload                   replace local vote state with the server's
    quit
`
}
func (*shellCmd) SetFlags(_ *flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, s, err := authedClient()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	voter, err := newVoter(ctx, api, s)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	runShell(ctx, os.Stdin, os.Stdout, api, voter)
	return subcommands.ExitSuccess
}

func runShell(ctx context.Context, in io.Reader, out io.Writer, api *client.Client, voter *client.Voter) {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for sc.Scan() {
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			fmt.Fprint(out, "> ")
			continue
		}
		switch args[0] {
		case "quit", "exit":
			return
		case "dash":
			if err := printDashboard(ctx, out, api, voter); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		case "up", "down":
			if len(args) != 3 {
				fmt.Fprintln(out, "usage: up|down <type> <item>")
				break
			}
			value := 1
			if args[0] == "down" {
				value = -1
			}
			o, err := voter.Cast(ctx, args[1], args[2], value)
			switch {
			case err != nil:
				fmt.Fprintln(out, "error:", err)
			case !o.Changed:
				fmt.Fprintf(out, "%s already\n", voteMark(o.Value))
			case !o.Synced:
				fmt.Fprintf(out, "%s (not saved on server)\n", voteMark(o.Value))
			default:
				fmt.Fprintln(out, voteMark(o.Value))
			}
		case "tally":
			if len(args) != 3 {
				fmt.Fprintln(out, "usage: tally <type> <item>")
				break
			}
			t, err := api.Tally(ctx, args[1], args[2])
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				break
			}
			fmt.Fprintf(out, "▲ %d  ▼ %d\n", t.Up, t.Down)
		case "reload":
			n, err := voter.Reload(ctx)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				break
			}
			fmt.Fprintf(out, "%d votes loaded\n", n)
		default:
			fmt.Fprintf(out, "unknown command %q\n", args[0])
		}
		fmt.Fprint(out, "> ")
	}
}
