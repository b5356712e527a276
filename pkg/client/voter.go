package client

import (
	"context"
	"errors"

	"coinpulse/internal/logging"
)

var ErrInvalidValue = errors.New("vote value must be 1 or -1")

// Remote is the ledger side of a Voter.
type Remote interface {
	Vote(ctx context.Context, feedbackType, itemID string, value int) (*Vote, error)
	Votes(ctx context.Context) ([]Vote, error)
}

// Outcome reports what Cast did. Changed is false for a re-cast of the
// current value, which is never sent. Synced is true only when the ledger
// acknowledged this cast.
type Outcome struct {
	Value   int
	Changed bool
	Synced  bool
}

// Voter applies casts optimistically: the cache is updated before the ledger
// is called, and a failed call leaves the cache as is. The cache converges
// again on the next successful cast or on Reload.
type Voter struct {
	remote    Remote
	cache     *VoteCache
	principal string
}

func NewVoter(remote Remote, cache *VoteCache, principal string) *Voter {
	return &Voter{remote: remote, cache: cache, principal: principal}
}

// Current returns the locally known value for an item.
func (v *Voter) Current(feedbackType, itemID string) (int, bool) {
	return v.cache.Get(v.principal, feedbackType, itemID)
}

func (v *Voter) Cast(ctx context.Context, feedbackType, itemID string, value int) (Outcome, error) {
	if value != 1 && value != -1 {
		return Outcome{}, ErrInvalidValue
	}
	if cur, ok := v.cache.Get(v.principal, feedbackType, itemID); ok && cur == value {
		return Outcome{Value: value}, nil
	}

	v.cache.Set(v.principal, feedbackType, itemID, value)
	if _, err := v.remote.Vote(ctx, feedbackType, itemID, value); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("type", feedbackType).
			Str("item_id", itemID).
			Int("value", value).
			Msg("vote not saved, keeping local state")
		return Outcome{Value: value, Changed: true}, nil
	}
	return Outcome{Value: value, Changed: true, Synced: true}, nil
}

// Reload replaces the principal's cached votes with the ledger's rows.
func (v *Voter) Reload(ctx context.Context) (int, error) {
	votes, err := v.remote.Votes(ctx)
	if err != nil {
		return 0, err
	}
	v.cache.Forget(v.principal)
	for _, vote := range votes {
		v.cache.Set(v.principal, vote.Type, vote.ItemID, vote.Value)
	}
	return len(votes), nil
}
