package providers

import (
	"context"
	"net/http"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"coinpulse/internal/models"
	"coinpulse/internal/utils"
)

// assetNames are matched against headlines to tag RSS items.
var assetNames = map[models.Asset][]string{
	models.AssetBTC:  {"btc", "bitcoin"},
	models.AssetETH:  {"eth", "ethereum", "ether"},
	models.AssetSOL:  {"sol", "solana"},
	models.AssetDOGE: {"doge", "dogecoin"},
}

// RSSNews serves the news section from a public RSS feed. Items mentioning a
// selected asset are ranked first.
type RSSNews struct {
	parser  *gofeed.Parser
	feedURL string
}

func NewRSSNews(client *http.Client, feedURL string) *RSSNews {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &RSSNews{parser: parser, feedURL: feedURL}
}

func (p *RSSNews) Section() models.Section { return models.SectionNews }

func (p *RSSNews) Fetch(ctx context.Context, req Request) (any, error) {
	if p.feedURL == "" {
		return nil, ErrNotConfigured
	}
	feed, err := p.parser.ParseURLWithContext(p.feedURL, ctx)
	if err != nil {
		return nil, err
	}

	var matched, rest []NewsItem
	for _, it := range feed.Items {
		item := rssItem(feed, it)
		item.Currencies = mentions(item.Title+" "+item.Summary, req.Assets)
		if len(item.Currencies) > 0 {
			matched = append(matched, item)
		} else {
			rest = append(rest, item)
		}
	}
	items := append(matched, rest...)
	if len(items) > maxNewsItems {
		items = items[:maxNewsItems]
	}
	if items == nil {
		items = []NewsItem{}
	}
	return items, nil
}

func rssItem(feed *gofeed.Feed, it *gofeed.Item) NewsItem {
	id := it.GUID
	if id == "" {
		id = it.Link
	}
	item := NewsItem{
		ID:       utils.Truncate(id, models.MaxItemIDLength),
		Title:    strings.TrimSpace(it.Title),
		URL:      it.Link,
		Source:   feed.Title,
		Summary:  utils.Truncate(summaryText(it), 280),
		ImageURL: thumbnail(it),
	}
	if it.PublishedParsed != nil {
		item.PublishedAt = *it.PublishedParsed
	}
	return item
}

// summaryText prefers the item description. Feeds that only ship the full
// article body get the readable part of it extracted first.
func summaryText(it *gofeed.Item) string {
	if text := utils.PlainText(it.Description); text != "" {
		return text
	}
	if it.Content == "" {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(it.Content), nil)
	if err == nil {
		if text := utils.PlainText(article.Content); text != "" {
			return text
		}
	}
	return utils.PlainText(it.Content)
}

// thumbnail relies on gofeed, which already falls back from media tags to
// image enclosures and embedded <img> elements.
func thumbnail(it *gofeed.Item) string {
	if it.Image == nil {
		return ""
	}
	return it.Image.URL
}

// mentions lists the assets whose symbol or name appears as a word in text.
func mentions(text string, assets []models.Asset) []string {
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		words[w] = true
	}
	out := []string{}
	for _, a := range assets {
		for _, name := range assetNames[a] {
			if words[name] {
				out = append(out, string(a))
				break
			}
		}
	}
	return out
}
