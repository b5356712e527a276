package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/datatypes"

	"coinpulse/internal/models"
	"coinpulse/internal/providers"
	"coinpulse/internal/testinfra"
)

type fakeProvider struct {
	section models.Section
	content any
	err     error
	delay   time.Duration
	// deaf providers sleep through cancellation.
	deaf    bool
	panics  bool
	calls   atomic.Int32
	lastReq atomic.Pointer[providers.Request]
}

func (p *fakeProvider) Section() models.Section { return p.section }

func (p *fakeProvider) Fetch(ctx context.Context, req providers.Request) (any, error) {
	p.calls.Add(1)
	p.lastReq.Store(&req)
	if p.panics {
		panic("boom")
	}
	if p.delay > 0 && p.deaf {
		time.Sleep(p.delay)
		return p.content, p.err
	}
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.content, p.err
}

type staticPrefs struct {
	prefs *models.Preferences
	err   error
}

func (s staticPrefs) Load(context.Context, string) (*models.Preferences, error) {
	return s.prefs, s.err
}

func prefsWith(content ...models.ContentType) *models.Preferences {
	return &models.Preferences{
		UserID:       "u1",
		Assets:       datatypes.JSONSlice[models.Asset]{models.AssetBTC, models.AssetETH},
		InvestorType: models.InvestorHODLer,
		ContentTypes: datatypes.JSONSlice[models.ContentType](content),
	}
}

func allProviders() (news, charts, social, fun *fakeProvider) {
	return &fakeProvider{section: models.SectionNews, content: "news"},
		&fakeProvider{section: models.SectionCharts, content: "charts"},
		&fakeProvider{section: models.SectionSocial, content: "social"},
		&fakeProvider{section: models.SectionFun, content: "fun"}
}

func statuses(d *Dashboard) []SectionStatus {
	out := make([]SectionStatus, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Status
	}
	return out
}

func TestComposeSkipsDisabledSections(t *testing.T) {
	news, charts, social, fun := allProviders()
	agg := NewAggregator(staticPrefs{prefs: prefsWith(models.ContentNews, models.ContentFun)}, time.Second, news, charts, social, fun)

	d := agg.Compose(context.Background(), "u1")

	want := []SectionStatus{StatusOK, StatusDisabled, StatusDisabled, StatusOK}
	got := statuses(d)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %s status = %s, want %s", d.Sections[i].Section, got[i], want[i])
		}
	}
	if charts.calls.Load() != 0 || social.calls.Load() != 0 {
		t.Error("disabled providers were called")
	}
	if news.calls.Load() != 1 || fun.calls.Load() != 1 {
		t.Error("enabled providers were not called exactly once")
	}
	if d.Sections[0].Content != "news" || d.Sections[1].Content != nil {
		t.Errorf("unexpected content %+v", d.Sections)
	}
}

func TestComposeOrderAndFeedbackTypes(t *testing.T) {
	news, charts, social, fun := allProviders()
	prefs := prefsWith(models.ContentTypes...)
	// registration order must not affect output order
	agg := NewAggregator(staticPrefs{prefs: prefs}, time.Second, fun, social, charts, news)

	d := agg.Compose(context.Background(), "u1")

	wantSections := []models.Section{models.SectionNews, models.SectionCharts, models.SectionSocial, models.SectionFun}
	wantTypes := []models.FeedbackType{models.FeedbackNews, models.FeedbackPrice, models.FeedbackInsight, models.FeedbackMeme}
	if len(d.Sections) != len(wantSections) {
		t.Fatalf("got %d sections", len(d.Sections))
	}
	for i := range wantSections {
		if d.Sections[i].Section != wantSections[i] || d.Sections[i].FeedbackType != wantTypes[i] {
			t.Errorf("sections[%d] = %s/%s", i, d.Sections[i].Section, d.Sections[i].FeedbackType)
		}
		if d.Sections[i].Status != StatusOK {
			t.Errorf("sections[%d] status = %s", i, d.Sections[i].Status)
		}
	}
	if d.Preferences != prefs {
		t.Error("dashboard does not carry the loaded preferences")
	}

	req := news.lastReq.Load()
	if req == nil || len(req.Assets) != 2 || req.InvestorType != models.InvestorHODLer {
		t.Errorf("provider request = %+v", req)
	}
}

func TestComposeDegradesFailingSections(t *testing.T) {
	news, charts, social, fun := allProviders()
	news.err = &providers.StatusError{Service: "cryptopanic", Code: 502}
	social.panics = true
	fun.err = errors.New("reddit down")

	agg := NewAggregator(staticPrefs{prefs: prefsWith(models.ContentTypes...)}, time.Second, news, charts, social, fun)
	d := agg.Compose(context.Background(), "u1")

	want := []SectionStatus{StatusUnavailable, StatusOK, StatusUnavailable, StatusUnavailable}
	for i, got := range statuses(d) {
		if got != want[i] {
			t.Errorf("section %s = %s, want %s", d.Sections[i].Section, got, want[i])
		}
		if got == StatusUnavailable && d.Sections[i].Reason == "" {
			t.Errorf("section %s has no reason", d.Sections[i].Section)
		}
		if got == StatusUnavailable && d.Sections[i].Content != nil {
			t.Errorf("section %s carries content", d.Sections[i].Section)
		}
	}
	if d.Sections[1].Content != "charts" {
		t.Errorf("healthy section content = %v", d.Sections[1].Content)
	}
}

func TestComposeTimesOutSlowProvider(t *testing.T) {
	news, charts, social, fun := allProviders()
	charts.delay = 5 * time.Second

	agg := NewAggregator(staticPrefs{prefs: prefsWith(models.ContentTypes...)}, 50*time.Millisecond, news, charts, social, fun)
	start := time.Now()
	d := agg.Compose(context.Background(), "u1")

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Compose took %v", elapsed)
	}
	if d.Sections[1].Status != StatusUnavailable || d.Sections[1].Reason != "provider timed out" {
		t.Errorf("slow section = %+v", d.Sections[1])
	}
	if d.Sections[0].Status != StatusOK {
		t.Errorf("fast section = %+v", d.Sections[0])
	}
}

func TestComposeDropsLateResultFromProviderIgnoringContext(t *testing.T) {
	news, charts, social, fun := allProviders()
	news.delay = time.Second
	news.deaf = true

	agg := NewAggregator(staticPrefs{prefs: prefsWith(models.ContentTypes...)}, 50*time.Millisecond, news, charts, social, fun)
	start := time.Now()
	d := agg.Compose(context.Background(), "u1")

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Compose waited %v for a provider past its deadline", elapsed)
	}
	if d.Sections[0].Status != StatusUnavailable || d.Sections[0].Reason != "provider timed out" {
		t.Errorf("late section = %+v", d.Sections[0])
	}
	if d.Sections[0].Content != nil {
		t.Errorf("late content leaked: %v", d.Sections[0].Content)
	}
	if d.Sections[1].Status != StatusOK {
		t.Errorf("charts = %+v", d.Sections[1])
	}
}

func TestComposeMissingProvider(t *testing.T) {
	news, _, _, _ := allProviders()
	agg := NewAggregator(staticPrefs{prefs: prefsWith(models.ContentNews, models.ContentCharts)}, time.Second, news)

	d := agg.Compose(context.Background(), "u1")
	if d.Sections[1].Status != StatusUnavailable || d.Sections[1].Reason != "no provider configured" {
		t.Errorf("charts = %+v", d.Sections[1])
	}
}

func TestComposePreferencesFailure(t *testing.T) {
	news, charts, social, fun := allProviders()
	agg := NewAggregator(staticPrefs{err: errors.New("db gone")}, time.Second, news, charts, social, fun)

	d := agg.Compose(context.Background(), "u1")
	for _, s := range d.Sections {
		if s.Status != StatusUnavailable {
			t.Errorf("section %s = %s, want unavailable", s.Section, s.Status)
		}
	}
	if news.calls.Load()+charts.calls.Load()+social.calls.Load()+fun.calls.Load() != 0 {
		t.Error("providers called without preferences")
	}
}

func TestComposeWithoutPreferencesDisablesEverything(t *testing.T) {
	news, charts, social, fun := allProviders()
	agg := NewAggregator(staticPrefs{prefs: models.EmptyPreferences("u1")}, time.Second, news, charts, social, fun)

	for _, s := range agg.Compose(context.Background(), "u1").Sections {
		if s.Status != StatusDisabled {
			t.Errorf("section %s = %s, want disabled", s.Section, s.Status)
		}
	}
}

// Ann enables news and fun, votes on a news item, changes her mind, and
// another user's vote shows up in the tally.
func TestDashboardVotingScenario(t *testing.T) {
	ctx := context.Background()
	conn := testinfra.NewSQLite(t)
	accounts := NewAccountService(conn)
	store := NewPreferenceStore(conn)
	ledger := NewVoteLedger(conn)

	ann := newUser(t, accounts, "ann@example.com")
	other := newUser(t, accounts, "u1@example.com")
	if _, err := store.Save(ctx, ann.ID, PreferencesInput{
		Assets:       []models.Asset{models.AssetBTC},
		InvestorType: models.InvestorHODLer,
		ContentTypes: []models.ContentType{models.ContentNews, models.ContentFun},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	news, charts, social, fun := allProviders()
	d := NewAggregator(store, time.Second, news, charts, social, fun).Compose(ctx, ann.ID)
	if got := statuses(d); got[0] != StatusOK || got[1] != StatusDisabled || got[2] != StatusDisabled || got[3] != StatusOK {
		t.Fatalf("statuses = %v", got)
	}

	if _, err := ledger.Cast(ctx, ann.ID, VoteInput{Type: d.Sections[0].FeedbackType, ItemID: "n-42", Value: 1}); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if _, err := ledger.Cast(ctx, ann.ID, VoteInput{Type: models.FeedbackNews, ItemID: "n-42", Value: -1}); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if _, err := ledger.Cast(ctx, other.ID, VoteInput{Type: models.FeedbackNews, ItemID: "n-42", Value: -1}); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	tally, err := ledger.Tally(ctx, models.FeedbackNews, "n-42")
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally.Up != 0 || tally.Down != 2 {
		t.Errorf("Tally = %+v, want {0 2}", tally)
	}
}
