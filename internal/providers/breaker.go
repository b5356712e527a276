package providers

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"coinpulse/internal/logging"
	"coinpulse/internal/metrics"
	"coinpulse/internal/models"
)

// BreakerSettings tunes WithBreaker. Zero values take the defaults below.
type BreakerSettings struct {
	MinRequests  uint32
	FailureRatio float64
	OpenTimeout  time.Duration
}

// Breaker short-circuits a provider after repeated failures so a dead
// upstream costs nothing until it recovers.
type Breaker struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[any]
}

func WithBreaker(next Provider, s BreakerSettings) *Breaker {
	if s.MinRequests == 0 {
		s.MinRequests = 5
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = time.Minute
	}
	name := string(next.Section())
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		// an unconfigured provider is not an upstream failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotConfigured)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("section", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Section() models.Section { return b.next.Section() }

func (b *Breaker) Fetch(ctx context.Context, req Request) (any, error) {
	return b.cb.Execute(func() (any, error) {
		return b.next.Fetch(ctx, req)
	})
}

func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
