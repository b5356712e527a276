package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/subcommands"

	"coinpulse/pkg/client"
)

const cacheSize = 1024

// newVoter builds a Voter whose cache is primed from the ledger.
func newVoter(ctx context.Context, api *client.Client, s *session) (*client.Voter, error) {
	cache, err := client.NewVoteCache(cacheSize)
	if err != nil {
		return nil, err
	}
	v := client.NewVoter(api, cache, s.User.ID)
	if _, err := v.Reload(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

type dashboardCmd struct{}

func (*dashboardCmd) Name() string             { return "dashboard" }
func (*dashboardCmd) Synopsis() string         { return "show the personalized feed" }
func (*dashboardCmd) Usage() string            { return "coinpulse dashboard\n" }
func (*dashboardCmd) SetFlags(_ *flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := printDashboard(ctx, os.Stdout, api, voter); err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printDashboard(ctx context.Context, w io.Writer, api *client.Client, voter *client.Voter) error {
	d, err := api.Dashboard(ctx)
	if err != nil {
		return err
	}
	for _, sec := range d.Sections {
		fmt.Fprintf(w, "== %s ==\n", sec.Section)
		switch sec.Status {
		case "disabled":
			fmt.Fprintln(w, "  (turned off in preferences)")
			continue
		case "unavailable":
			fmt.Fprintf(w, "  temporarily unavailable: %s\n", sec.Reason)
			continue
		}
		for _, line := range renderSection(sec) {
			mark := "  "
			if v, ok := voter.Current(sec.FeedbackType, line.itemID); ok {
				mark = voteMark(v) + " "
			}
			fmt.Fprintf(w, "  %s%s  [%s]\n", mark, line.text, line.itemID)
		}
	}
	return nil
}

type sectionLine struct {
	itemID string
	text   string
}

func renderSection(sec client.Section) []sectionLine {
	var lines []sectionLine
	switch sec.Section {
	case "news":
		var items []struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Source string `json:"source"`
		}
		_ = json.Unmarshal(sec.Content, &items)
		for _, it := range items {
			lines = append(lines, sectionLine{it.ID, fmt.Sprintf("%s (%s)", it.Title, it.Source)})
		}
	case "charts":
		var quotes []struct {
			Symbol  string `json:"symbol"`
			Display string `json:"display"`
		}
		_ = json.Unmarshal(sec.Content, &quotes)
		for _, q := range quotes {
			lines = append(lines, sectionLine{q.Symbol, fmt.Sprintf("%-5s %s", q.Symbol, q.Display)})
		}
	case "social":
		var in struct {
			Key  string `json:"key"`
			Text string `json:"text"`
		}
		_ = json.Unmarshal(sec.Content, &in)
		lines = append(lines, sectionLine{in.Key, in.Text})
	case "fun":
		var m struct {
			Title    string `json:"title"`
			ImageURL string `json:"imageUrl"`
			PostURL  string `json:"postUrl"`
		}
		_ = json.Unmarshal(sec.Content, &m)
		lines = append(lines, sectionLine{m.PostURL, fmt.Sprintf("%s %s", m.Title, m.ImageURL)})
	}
	return lines
}

func voteMark(v int) string {
	if v > 0 {
		return "▲"
	}
	return "▼"
}

type voteCmd struct {
	feedbackType, itemID string
	down                 bool
}

func (*voteCmd) Name() string     { return "vote" }
func (*voteCmd) Synopsis() string { return "vote an item up or down" }
func (*voteCmd) Usage() string {
	return `coinpulse vote -type <news|price|insight|meme> -item <id> [-down]
`
}

func (c *voteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.feedbackType, "type", "", "feedback type")
	f.StringVar(&c.itemID, "item", "", "item id as shown by dashboard")
	f.BoolVar(&c.down, "down", false, "vote down instead of up")
}

func (c *voteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, _, err := authedClient()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	value := 1
	if c.down {
		value = -1
	}
	v, err := api.Vote(ctx, c.feedbackType, c.itemID, value)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %s %s\n", voteMark(v.Value), v.Type, v.ItemID)
	return subcommands.ExitSuccess
}

type votesCmd struct{}

func (*votesCmd) Name() string             { return "votes" }
func (*votesCmd) Synopsis() string         { return "list your votes" }
func (*votesCmd) Usage() string            { return "coinpulse votes\n" }
func (*votesCmd) SetFlags(_ *flag.FlagSet) {}

func (*votesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, _, err := authedClient()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	votes, err := api.Votes(ctx)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	for _, v := range votes {
		fmt.Printf("%s %-8s %s  (%s)\n", voteMark(v.Value), v.Type, v.ItemID, v.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return subcommands.ExitSuccess
}

type tallyCmd struct {
	feedbackType, itemID string
}

func (*tallyCmd) Name() string     { return "tally" }
func (*tallyCmd) Synopsis() string { return "count votes on an item" }
func (*tallyCmd) Usage() string {
	return `coinpulse tally -type <type> -item <id>
`
}

func (c *tallyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.feedbackType, "type", "", "feedback type")
	f.StringVar(&c.itemID, "item", "", "item id")
}

func (c *tallyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	api, _, err := authedClient()
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	t, err := api.Tally(ctx, c.feedbackType, c.itemID)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("▲ %s  ▼ %s\n", strconv.FormatInt(t.Up, 10), strconv.FormatInt(t.Down, 10))
	return subcommands.ExitSuccess
}
