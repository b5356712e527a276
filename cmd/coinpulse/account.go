package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"coinpulse/pkg/client"
)

type signupCmd struct {
	name, email, password string
}

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "create an account and save the session" }
func (*signupCmd) Usage() string {
	return `coinpulse signup -name <name> -email <email> -password <password>
`
}

func (c *signupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "display name")
	f.StringVar(&c.email, "email", "", "email address")
	f.StringVar(&c.password, "password", "", "password (at least 6 characters)")
}

func (c *signupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api := client.New(*serverURL)
	s, err := api.Signup(ctx, c.name, c.email, c.password)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	if err := saveSession(&session{Server: *serverURL, Token: s.Token, User: s.User}); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Welcome, %s (%s)\n", s.User.Name, s.User.Email)
	return subcommands.ExitSuccess
}

type loginCmd struct {
	email, password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and save the session" }
func (*loginCmd) Usage() string {
	return `coinpulse login -email <email> -password <password>
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "email address")
	f.StringVar(&c.password, "password", "", "password")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api := client.New(*serverURL)
	s, err := api.Login(ctx, c.email, c.password)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	if err := saveSession(&session{Server: *serverURL, Token: s.Token, User: s.User}); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Logged in as %s\n", s.User.Email)
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "forget the saved session" }
func (*logoutCmd) Usage() string            { return "coinpulse logout\n" }
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}

func (*logoutCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := os.Remove(*sessionPath); err != nil && !os.IsNotExist(err) {
		fail(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type meCmd struct{}

func (*meCmd) Name() string             { return "me" }
func (*meCmd) Synopsis() string         { return "show the current account and preferences" }
func (*meCmd) Usage() string            { return "coinpulse me\n" }
func (*meCmd) SetFlags(_ *flag.FlagSet) {}

func (*meCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, _, err := authedClient()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	me, err := api.Me(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s <%s>  id=%s\n", me.Name, me.Email, me.ID)
	fmt.Printf("  assets:   %s\n", strings.Join(me.Preferences.Assets, ", "))
	fmt.Printf("  investor: %s\n", me.Preferences.InvestorType)
	fmt.Printf("  content:  %s\n", strings.Join(me.Preferences.ContentTypes, ", "))
	return subcommands.ExitSuccess
}

type prefsCmd struct {
	assets, investor, content string
}

func (*prefsCmd) Name() string     { return "prefs" }
func (*prefsCmd) Synopsis() string { return "replace the saved preferences" }
func (*prefsCmd) Usage() string {
	return `coinpulse prefs -assets BTC,ETH -investor HODLer -content "Market News,Charts"

  Preferences are replaced as a whole; omitted lists are saved empty and
  rejected by the server.
`
}

func (c *prefsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assets, "assets", "", "comma separated asset symbols (BTC, ETH, SOL, DOGE)")
	f.StringVar(&c.investor, "investor", "HODLer", "investor type (HODLer, Day Trader, NFT Collector)")
	f.StringVar(&c.content, "content", "", "comma separated content types (Market News, Charts, Social, Fun)")
}

func (c *prefsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, _, err := authedClient()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	p, err := api.SavePreferences(ctx, client.Preferences{
		Assets:       splitList(strings.ToUpper(c.assets)),
		InvestorType: c.investor,
		ContentTypes: splitList(c.content),
	})
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Saved: assets=%s investor=%s content=%s\n",
		strings.Join(p.Assets, ","), p.InvestorType, strings.Join(p.ContentTypes, ","))
	return subcommands.ExitSuccess
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
