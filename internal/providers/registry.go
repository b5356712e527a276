package providers

import (
	"context"
	"net/http"

	"coinpulse/internal/config"
	"coinpulse/internal/logging"
)

// FromConfig builds one breaker-wrapped provider per dashboard section.
func FromConfig(ctx context.Context, cfg config.ProvidersConfig) ([]Provider, error) {
	client := NewHTTPClient(2 * cfg.Timeout)

	var news Provider
	if cfg.CryptoPanicAPIKey != "" {
		news = NewCryptoPanic(client, cfg.CryptoPanicURL, cfg.CryptoPanicAPIKey)
	} else {
		logging.Info().Str("feed", cfg.NewsRSSURL).Msg("CRYPTOPANIC_API_KEY not set, serving news from RSS")
		news = NewRSSNews(client, cfg.NewsRSSURL)
	}

	gen, err := insightGenerator(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	insights, err := NewInsights(gen)
	if err != nil {
		return nil, err
	}

	ps := []Provider{
		news,
		NewCoinGecko(client, cfg.CoinGeckoBaseURL),
		insights,
		NewReddit(client, cfg.RedditBaseURL),
	}
	for i, p := range ps {
		ps[i] = WithBreaker(p, BreakerSettings{})
	}
	return ps, nil
}

func insightGenerator(ctx context.Context, cfg config.ProvidersConfig, client *http.Client) (Generator, error) {
	switch cfg.InsightBackend {
	case "gemini":
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "huggingface":
		return NewHuggingFace(client, cfg.HuggingFaceURL, cfg.HuggingFaceModel, cfg.HuggingFaceAPIKey), nil
	default:
		return StaticGenerator{}, nil
	}
}
