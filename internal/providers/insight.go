package providers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"coinpulse/internal/models"
	"coinpulse/internal/utils"
)

const insightCacheSize = 256

// Generator produces free text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Insight is the daily commentary. Key is the vote item id and identifies
// the (date, investor type, assets) combination the text was written for.
type Insight struct {
	Key  string `json:"key"`
	Date string `json:"date"`
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Insights serves the social section with one generated insight per day and
// audience. Results are cached until the date changes.
type Insights struct {
	gen   Generator
	cache *utils.TTLCache[string, Insight]
	now   func() time.Time
}

func NewInsights(gen Generator) (*Insights, error) {
	cache, err := utils.NewTTLCache[string, Insight](insightCacheSize, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &Insights{gen: gen, cache: cache, now: time.Now}, nil
}

// SetClock replaces time.Now for dating insights.
func (p *Insights) SetClock(now func() time.Time) {
	p.now = now
	p.cache.SetClock(now)
}

func (p *Insights) Section() models.Section { return models.SectionSocial }

func (p *Insights) Fetch(ctx context.Context, req Request) (any, error) {
	date := p.now().UTC().Format(time.DateOnly)
	investor := req.InvestorType
	if investor == "" {
		investor = models.InvestorHODLer
	}
	key := fmt.Sprintf("%s/%s/%s", date, investor, req.AssetsOrDefault("+", "market"))
	if cached, ok := p.cache.Get(key); ok {
		return cached, nil
	}

	raw, err := p.gen.Generate(ctx, insightPrompt(date, investor, req))
	if err != nil {
		return nil, err
	}
	text := firstParagraph(raw)
	if text == "" {
		text = fmt.Sprintf("Quick take (%s): Market mixed. For %s, watch reaction around recent swing levels on %s and let volume confirm direction before entries.",
			date, investor, req.AssetsOrDefault(", ", "BTC/ETH"))
	}

	in := Insight{Key: key, Date: date, Text: text, HTML: utils.RenderMarkdown(text)}
	p.cache.Set(key, in)
	return in, nil
}

func insightPrompt(date string, investor models.InvestorType, req Request) string {
	return strings.Join([]string{
		fmt.Sprintf("You are a concise crypto assistant. Date: %s.", date),
		fmt.Sprintf("Audience type: %s.", investor),
		fmt.Sprintf("Focus on assets (symbols): %s.", req.AssetsOrDefault(", ", "general market")),
		"In <= 120 words, give ONE practical, high-level daily insight (no hype, no financial advice).",
		"Prefer topical catalysts, levels to watch, or narrative shifts.",
	}, " ")
}

var paragraphBreak = regexp.MustCompile(`\n+`)

func firstParagraph(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(paragraphBreak.Split(s, 2)[0])
}

// StaticGenerator writes a canned insight without calling a model.
type StaticGenerator struct{}

func (StaticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "Quick take: Liquidity is clustered near recent highs and lows; let momentum confirm before chasing. Keep risk light into major data and events.", nil
}
