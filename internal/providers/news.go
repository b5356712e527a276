package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coinpulse/internal/models"
)

const maxNewsItems = 5

// NewsItem is one headline. ID is the vote item id.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Currencies  []string  `json:"currencies"`
}

// CryptoPanic serves the news section from the CryptoPanic posts API.
type CryptoPanic struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewCryptoPanic(client *http.Client, baseURL, token string) *CryptoPanic {
	return &CryptoPanic{client: client, baseURL: baseURL, token: token}
}

func (p *CryptoPanic) Section() models.Section { return models.SectionNews }

type cryptoPanicResponse struct {
	Results []struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"published_at"`
		Source      struct {
			Title string `json:"title"`
		} `json:"source"`
		Currencies []struct {
			Code string `json:"code"`
		} `json:"currencies"`
	} `json:"results"`
}

func (p *CryptoPanic) Fetch(ctx context.Context, req Request) (any, error) {
	if p.token == "" {
		return nil, ErrNotConfigured
	}
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("auth_token", p.token)
	if len(req.Assets) > 0 {
		q.Set("currencies", req.AssetsOrDefault(",", ""))
	}
	q.Set("filter", "news")
	q.Set("public", "true")
	u.RawQuery = q.Encode()

	var body cryptoPanicResponse
	if err := getJSON(ctx, p.client, "CryptoPanic", u.String(), nil, &body); err != nil {
		return nil, err
	}

	items := make([]NewsItem, 0, maxNewsItems)
	for _, r := range body.Results {
		if len(items) == maxNewsItems {
			break
		}
		codes := make([]string, 0, len(r.Currencies))
		for _, c := range r.Currencies {
			codes = append(codes, c.Code)
		}
		items = append(items, NewsItem{
			ID:          strconv.FormatInt(r.ID, 10),
			Title:       strings.TrimSpace(r.Title),
			URL:         r.URL,
			Source:      r.Source.Title,
			PublishedAt: r.PublishedAt,
			Currencies:  codes,
		})
	}
	return items, nil
}
