package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"coinpulse/internal/logging"
	"coinpulse/internal/metrics"
	"coinpulse/internal/models"
	"coinpulse/internal/providers"
)

const DefaultProviderTimeout = 8 * time.Second

type SectionStatus string

const (
	StatusOK          SectionStatus = "ok"
	StatusDisabled    SectionStatus = "disabled"
	StatusUnavailable SectionStatus = "unavailable"
)

// SectionResult is the outcome of one dashboard section. Content is set only
// when Status is ok; Reason only when it is unavailable.
type SectionResult struct {
	Section      models.Section      `json:"section"`
	FeedbackType models.FeedbackType `json:"feedbackType"`
	Status       SectionStatus       `json:"status"`
	Reason       string              `json:"reason,omitempty"`
	Content      any                 `json:"content,omitempty"`
}

type Dashboard struct {
	Preferences *models.Preferences `json:"preferences,omitempty"`
	Sections    []SectionResult     `json:"sections"`
}

// feedbackTypes maps each section to the vote type of its items.
var feedbackTypes = map[models.Section]models.FeedbackType{
	models.SectionNews:   models.FeedbackNews,
	models.SectionCharts: models.FeedbackPrice,
	models.SectionSocial: models.FeedbackInsight,
	models.SectionFun:    models.FeedbackMeme,
}

// PreferenceLoader is the read side of PreferenceStore.
type PreferenceLoader interface {
	Load(ctx context.Context, userID string) (*models.Preferences, error)
}

// Aggregator composes a dashboard from the providers a user's preferences
// enable. Provider failures never fail the composition.
type Aggregator struct {
	prefs     PreferenceLoader
	providers map[models.Section]providers.Provider
	timeout   time.Duration
}

func NewAggregator(prefs PreferenceLoader, timeout time.Duration, ps ...providers.Provider) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	m := make(map[models.Section]providers.Provider, len(ps))
	for _, p := range ps {
		m[p.Section()] = p
	}
	return &Aggregator{prefs: prefs, providers: m, timeout: timeout}
}

// Compose returns one result per section in the fixed section order. Enabled
// providers run concurrently, each under its own deadline.
func (a *Aggregator) Compose(ctx context.Context, userID string) *Dashboard {
	results := make([]SectionResult, len(models.Sections))
	for i, s := range models.Sections {
		results[i] = SectionResult{Section: s, FeedbackType: feedbackTypes[s]}
	}

	prefs, err := a.prefs.Load(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("load preferences for dashboard")
		for i := range results {
			results[i].Status = StatusUnavailable
			results[i].Reason = "preferences unavailable"
		}
		return &Dashboard{Sections: results}
	}

	req := providers.Request{Assets: prefs.Assets, InvestorType: prefs.InvestorType}
	var wg sync.WaitGroup
	for i, s := range models.Sections {
		if !prefs.Enabled(s) {
			results[i].Status = StatusDisabled
			metrics.ProviderRequests.WithLabelValues(string(s), "disabled").Inc()
			continue
		}
		p, ok := a.providers[s]
		if !ok {
			results[i].Status = StatusUnavailable
			results[i].Reason = "no provider configured"
			continue
		}
		wg.Add(1)
		go func(r *SectionResult, p providers.Provider) {
			defer wg.Done()
			a.fetch(ctx, r, p, req)
		}(&results[i], p)
	}
	wg.Wait()
	return &Dashboard{Preferences: prefs, Sections: results}
}

func (a *Aggregator) fetch(ctx context.Context, r *SectionResult, p providers.Provider, req providers.Request) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type fetchResult struct {
		content any
		err     error
	}
	done := make(chan fetchResult, 1)
	start := time.Now()
	go func() {
		content, err := safeFetch(ctx, p, req)
		done <- fetchResult{content, err}
	}()

	var content any
	var err error
	select {
	case res := <-done:
		content, err = res.content, res.err
	case <-ctx.Done():
		// A provider that ignores ctx finishes on its own; its result is dropped.
		err = ctx.Err()
	}
	metrics.ProviderDuration.WithLabelValues(string(r.Section)).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome, reason := classifyProviderError(ctx, err)
		metrics.ProviderRequests.WithLabelValues(string(r.Section), outcome).Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("section", string(r.Section)).Msg("provider unavailable")
		r.Status = StatusUnavailable
		r.Reason = reason
		return
	}
	metrics.ProviderRequests.WithLabelValues(string(r.Section), "ok").Inc()
	r.Status = StatusOK
	r.Content = content
}

type panicError struct{ value any }

func (e panicError) Error() string { return fmt.Sprintf("provider panic: %v", e.value) }

func safeFetch(ctx context.Context, p providers.Provider, req providers.Request) (content any, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = panicError{value: v}
		}
	}()
	return p.Fetch(ctx, req)
}

func classifyProviderError(ctx context.Context, err error) (outcome, reason string) {
	var pe panicError
	var se *providers.StatusError
	switch {
	case errors.As(err, &pe):
		return "panic", "provider failed"
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout", "provider timed out"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "open", "provider temporarily disabled"
	case errors.Is(err, providers.ErrNotConfigured):
		return "error", "provider not configured"
	case errors.As(err, &se):
		return "error", se.Error()
	default:
		return "error", "provider failed"
	}
}
