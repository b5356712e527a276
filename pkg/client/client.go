// Package client talks to the coinpulse HTTP API and keeps an optimistic
// local mirror of the caller's votes.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Field   string `json:"field"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("coinpulse: HTTP %d", e.Status)
	}
	return fmt.Sprintf("coinpulse: HTTP %d: %s", e.Status, e.Message)
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Preferences struct {
	Assets       []string  `json:"assets"`
	InvestorType string    `json:"investorType"`
	ContentTypes []string  `json:"contentTypes"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

type Me struct {
	User
	Preferences Preferences `json:"preferences"`
}

type Vote struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	ItemID    string    `json:"itemId"`
	Value     int       `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Tally struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

// Section is one dashboard section. Content is left raw; its shape depends
// on the section.
type Section struct {
	Section      string          `json:"section"`
	FeedbackType string          `json:"feedbackType"`
	Status       string          `json:"status"`
	Reason       string          `json:"reason,omitempty"`
	Content      json.RawMessage `json:"content,omitempty"`
}

type Dashboard struct {
	Sections []Section `json:"sections"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/signup", body, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

func (c *Client) Me(ctx context.Context) (*Me, error) {
	var me Me
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *Client) SavePreferences(ctx context.Context, p Preferences) (*Preferences, error) {
	var out Preferences
	if err := c.do(ctx, http.MethodPut, "/api/preferences", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) Vote(ctx context.Context, feedbackType, itemID string, value int) (*Vote, error) {
	var out struct {
		Vote Vote `json:"vote"`
	}
	body := map[string]any{"type": feedbackType, "itemId": itemID, "value": value}
	if err := c.do(ctx, http.MethodPost, "/api/vote", body, &out); err != nil {
		return nil, err
	}
	return &out.Vote, nil
}

func (c *Client) Votes(ctx context.Context) ([]Vote, error) {
	var out struct {
		Votes []Vote `json:"votes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/votes", nil, &out); err != nil {
		return nil, err
	}
	return out.Votes, nil
}

func (c *Client) Tally(ctx context.Context, feedbackType, itemID string) (Tally, error) {
	var t Tally
	q := url.Values{"type": {feedbackType}, "itemId": {itemID}}
	err := c.do(ctx, http.MethodGet, "/api/votes/tally?"+q.Encode(), nil, &t)
	return t, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
