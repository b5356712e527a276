package providers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"

	"coinpulse/internal/models"
)

// Meme is one image post. PostURL is the vote item id.
type Meme struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	PostURL  string `json:"postUrl"`
	Source   string `json:"source"`
}

const defaultSubreddit = "CryptoCurrencyMemes"

var subreddits = map[models.Asset]string{
	models.AssetBTC:  "BitcoinMemes",
	models.AssetETH:  "CryptoCurrencyMemes",
	models.AssetSOL:  "CryptoCurrencyMemes",
	models.AssetDOGE: "dogecoinmemes",
}

// FallbackMemes are served when a subreddit returns no image posts.
var FallbackMemes = []Meme{
	{Title: "HODL wizard", ImageURL: "https://i.redd.it/f42f4j9kq9p61.jpg", PostURL: "https://www.reddit.com/r/BitcoinMemes/", Source: "fallback"},
	{Title: "Buy the dip", ImageURL: "https://i.redd.it/6t5b0zqgkcl81.jpg", PostURL: "https://www.reddit.com/r/CryptoCurrencyMemes/", Source: "fallback"},
	{Title: "Sideways market", ImageURL: "https://i.redd.it/oz5cgs1y9js41.jpg", PostURL: "https://www.reddit.com/r/BitcoinMemes/", Source: "fallback"},
}

// Reddit serves the fun section from a subreddit's top posts of the month.
type Reddit struct {
	client  *http.Client
	baseURL string
	pick    func(n int) int
}

func NewReddit(client *http.Client, baseURL string) *Reddit {
	return &Reddit{client: client, baseURL: strings.TrimSuffix(baseURL, "/"), pick: rand.IntN}
}

func (p *Reddit) Section() models.Section { return models.SectionFun }

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title               string `json:"title"`
	URL                 string `json:"url"`
	URLOverriddenByDest string `json:"url_overridden_by_dest"`
	Permalink           string `json:"permalink"`
	PostHint            string `json:"post_hint"`
	Over18              bool   `json:"over_18"`
	Preview             struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}

func (p redditPost) imageURL() string {
	for _, u := range []string{p.URLOverriddenByDest, p.URL} {
		if isImageURL(u) {
			return u
		}
	}
	if len(p.Preview.Images) > 0 && p.Preview.Images[0].Source.URL != "" {
		return strings.ReplaceAll(p.Preview.Images[0].Source.URL, "&amp;", "&")
	}
	if p.PostHint == "image" {
		if p.URLOverriddenByDest != "" {
			return p.URLOverriddenByDest
		}
		return p.URL
	}
	return ""
}

func isImageURL(u string) bool {
	u = strings.ToLower(u)
	return strings.HasSuffix(u, ".jpg") || strings.HasSuffix(u, ".jpeg") || strings.HasSuffix(u, ".png") || strings.HasSuffix(u, ".gif")
}

// SubredditFor picks the community from the first selected asset.
func SubredditFor(assets []models.Asset) string {
	if len(assets) > 0 {
		if s, ok := subreddits[assets[0]]; ok {
			return s
		}
	}
	return defaultSubreddit
}

func (p *Reddit) Fetch(ctx context.Context, req Request) (any, error) {
	sub := SubredditFor(req.Assets)
	q := url.Values{"limit": {"50"}, "t": {"month"}, "raw_json": {"1"}}
	endpoint := fmt.Sprintf("%s/r/%s/top.json?%s", p.baseURL, sub, q.Encode())

	var listing redditListing
	header := http.Header{"User-Agent": {userAgent}}
	if err := getJSON(ctx, p.client, "Reddit", endpoint, header, &listing); err != nil {
		return nil, err
	}

	var memes []Meme
	for _, c := range listing.Data.Children {
		post := c.Data
		if post.Over18 {
			continue
		}
		img := post.imageURL()
		if img == "" {
			continue
		}
		link := fmt.Sprintf("%s/r/%s/", p.baseURL, sub)
		if post.Permalink != "" {
			link = p.baseURL + post.Permalink
		}
		title := post.Title
		if title == "" {
			title = "Crypto meme"
		}
		memes = append(memes, Meme{Title: title, ImageURL: img, PostURL: link, Source: sub})
	}
	if len(memes) == 0 {
		return FallbackMemes[p.pick(len(FallbackMemes))], nil
	}
	return memes[p.pick(len(memes))], nil
}
