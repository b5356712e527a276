// Package providers fetches dashboard content from external services. Every
// provider serves exactly one dashboard section.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"coinpulse/internal/models"
)

const userAgent = "coinpulse/1.0 (+https://github.com/coinpulse)"

var ErrNotConfigured = errors.New("provider not configured")

// Request carries the preference fields a provider may tailor content to.
type Request struct {
	Assets       []models.Asset
	InvestorType models.InvestorType
}

// AssetsOrDefault returns the selected symbols joined by sep, or fallback.
func (r Request) AssetsOrDefault(sep, fallback string) string {
	if len(r.Assets) == 0 {
		return fallback
	}
	parts := make([]string, len(r.Assets))
	for i, a := range r.Assets {
		parts[i] = string(a)
	}
	return strings.Join(parts, sep)
}

type Provider interface {
	Section() models.Section
	Fetch(ctx context.Context, req Request) (any, error)
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Service string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s HTTP %d", e.Service, e.Code)
}

// NewHTTPClient returns the client shared by the HTTP providers. The
// aggregator's context deadline bounds each call; timeout is a backstop.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 4,
		},
	}
}

func getJSON(ctx context.Context, client *http.Client, service, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return doJSON(client, service, req, out)
}

func doJSON(client *http.Client, service string, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Service: service, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode: %w", service, err)
	}
	return nil
}
