package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"coinpulse/internal/auth"
	"coinpulse/internal/handlers"
	"coinpulse/internal/models"
	"coinpulse/internal/providers"
	"coinpulse/internal/services"
	"coinpulse/internal/testinfra"
)

type stubProvider struct {
	section models.Section
	content any
}

func (p stubProvider) Section() models.Section { return p.section }

func (p stubProvider) Fetch(context.Context, providers.Request) (any, error) {
	return p.content, nil
}

type testServer struct {
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := testinfra.NewSQLite(t)
	tokens, err := auth.NewTokenService("router-test-secret-0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	accounts := services.NewAccountService(conn)
	prefs := services.NewPreferenceStore(conn)
	agg := services.NewAggregator(prefs, time.Second,
		stubProvider{section: models.SectionNews, content: []providers.NewsItem{{ID: "n1", Title: "Headline"}}},
		stubProvider{section: models.SectionCharts, content: []providers.Quote{}},
		stubProvider{section: models.SectionSocial, content: providers.Insight{Key: "k"}},
		stubProvider{section: models.SectionFun, content: providers.FallbackMemes[0]},
	)

	engine := New(Deps{
		Tokens:      tokens,
		Issuer:      tokens,
		Users:       accounts,
		Accounts:    accounts,
		Preferences: prefs,
		Ledger:      services.NewVoteLedger(conn),
		Composer:    agg,
		Cookies:     handlers.CookieConfig{Name: "token", MaxAge: time.Hour},
		CORSOrigins: []string{"http://localhost:5173"},
	})
	return &testServer{engine: engine}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthAndCatalog(t *testing.T) {
	s := newTestServer(t)

	if w := s.do(t, http.MethodGet, "/api/health", nil); w.Code != http.StatusOK {
		t.Errorf("health = %d", w.Code)
	}
	w := s.do(t, http.MethodGet, "/api/catalog", nil)
	cat := decode[map[string][]string](t, w)
	if len(cat["assets"]) != len(models.Assets) || len(cat["contentTypes"]) != 4 {
		t.Errorf("catalog = %v", cat)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/me", "/api/preferences", "/api/dashboard", "/api/votes"} {
		if w := s.do(t, http.MethodGet, path, nil); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, w.Code)
		}
	}
}

func TestSignupSetsCookie(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/signup", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup = %d %s", w.Code, w.Body.String())
	}
	cookie := w.Header().Get("Set-Cookie")
	for _, want := range []string{"token=", "HttpOnly", "Path=/", "SameSite=Lax"} {
		if !strings.Contains(cookie, want) {
			t.Errorf("Set-Cookie %q missing %q", cookie, want)
		}
	}

	again := s.do(t, http.MethodPost, "/api/signup", map[string]string{
		"name": "Ann", "email": "ANN@example.com", "password": "secret1",
	})
	if again.Code != http.StatusConflict {
		t.Errorf("duplicate signup = %d", again.Code)
	}

	logout := s.do(t, http.MethodPost, "/api/logout", nil)
	if !strings.Contains(logout.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Errorf("logout Set-Cookie = %q", logout.Header().Get("Set-Cookie"))
	}
}

func TestLoginErrors(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/signup", map[string]string{"name": "Ann", "email": "ann@example.com", "password": "secret1"})

	if w := s.do(t, http.MethodPost, "/api/login", map[string]string{"email": "bob@example.com", "password": "secret1"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown email = %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/login", map[string]string{"email": "ann@example.com", "password": "wrong-one"}); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password = %d", w.Code)
	}
	w := s.do(t, http.MethodPost, "/api/login", map[string]string{"email": "ann", "password": "secret1"})
	if w.Code != http.StatusBadRequest || decode[map[string]string](t, w)["field"] != "email" {
		t.Errorf("bad email = %d %s", w.Code, w.Body.String())
	}
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/signup", map[string]string{"name": "Ann", "email": "ann@example.com", "password": "secret1"})
	session := decode[struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}](t, w)
	if !session.OK || session.Token == "" || session.User.Email != "ann@example.com" {
		t.Fatalf("signup body = %s", w.Body.String())
	}
	s.token = session.Token

	me := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/me", nil))
	if me["id"] != session.User.ID || me["preferences"] == nil {
		t.Errorf("me = %v", me)
	}

	w = s.do(t, http.MethodPut, "/api/preferences", map[string]any{
		"assets": []string{"BTC"}, "investorType": "HODLer", "contentTypes": []string{"Market News", "Fun"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save preferences = %d %s", w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodPut, "/api/preferences", map[string]any{
		"assets": []string{"XRP"}, "investorType": "HODLer", "contentTypes": []string{"Fun"},
	})
	if w.Code != http.StatusBadRequest || decode[map[string]string](t, w)["field"] != "assets" {
		t.Errorf("invalid preferences = %d %s", w.Code, w.Body.String())
	}

	dash := decode[services.Dashboard](t, s.do(t, http.MethodGet, "/api/dashboard", nil))
	want := []services.SectionStatus{services.StatusOK, services.StatusDisabled, services.StatusDisabled, services.StatusOK}
	for i, sec := range dash.Sections {
		if sec.Status != want[i] {
			t.Errorf("section %s = %s, want %s", sec.Section, sec.Status, want[i])
		}
	}

	w = s.do(t, http.MethodPost, "/api/vote", map[string]any{"type": "news", "itemId": "n1", "value": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("vote = %d %s", w.Code, w.Body.String())
	}
	s.do(t, http.MethodPost, "/api/vote", map[string]any{"type": "news", "itemId": "n1", "value": -1})
	if w := s.do(t, http.MethodPost, "/api/vote", map[string]any{"type": "news", "itemId": "n1", "value": 0}); w.Code != http.StatusBadRequest {
		t.Errorf("zero vote = %d", w.Code)
	}

	votes := decode[struct {
		Votes []models.Vote `json:"votes"`
	}](t, s.do(t, http.MethodGet, "/api/votes", nil))
	if len(votes.Votes) != 1 || votes.Votes[0].Value != -1 {
		t.Errorf("votes = %+v", votes.Votes)
	}

	tally := decode[models.Tally](t, s.do(t, http.MethodGet, "/api/votes/tally?type=news&itemId=n1", nil))
	if tally.Up != 0 || tally.Down != 1 {
		t.Errorf("tally = %+v", tally)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/vote", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials not allowed")
	}
}
