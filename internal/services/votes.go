package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coinpulse/internal/apperr"
	"coinpulse/internal/metrics"
	"coinpulse/internal/models"
	"coinpulse/internal/validation"
)

// VoteInput is one cast as it arrives from a client.
type VoteInput struct {
	Type   models.FeedbackType `json:"type" validate:"required,feedback_type"`
	ItemID string              `json:"itemId" validate:"required,item_id"`
	Value  int                 `json:"value" validate:"vote_value"`
}

// VoteLedger stores at most one vote per (user, type, item). Concurrent casts
// on the same key are serialized by the database's upsert; the last writer
// wins and no caller sees a conflict error.
type VoteLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewVoteLedger(db *gorm.DB) *VoteLedger {
	return &VoteLedger{db: db, now: time.Now}
}

// SetClock replaces time.Now for row timestamps.
func (l *VoteLedger) SetClock(now func() time.Time) {
	l.now = now
}

// Cast records value for the key and returns the stored row.
func (l *VoteLedger) Cast(ctx context.Context, userID string, in VoteInput) (*models.Vote, error) {
	in.ItemID = strings.TrimSpace(in.ItemID)
	if err := validation.Struct(&in); err != nil {
		metrics.VotesCast.WithLabelValues(string(in.Type), "invalid").Inc()
		return nil, err
	}

	now := l.now().UTC()
	vote := models.Vote{
		UserID:       userID,
		FeedbackType: in.Type,
		ItemID:       in.ItemID,
		Value:        in.Value,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// Re-casting the stored value matches no row in the WHERE, leaving
	// updated_at untouched.
	changed := clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "votes.value <> excluded.value"}}}
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "feedback_type"}, {Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		Where:     changed,
	}).Create(&vote).Error
	if err != nil {
		metrics.VotesCast.WithLabelValues(string(in.Type), "error").Inc()
		return nil, apperr.Storage("cast vote", err)
	}

	stored, err := l.find(ctx, userID, in.Type, in.ItemID)
	if err != nil {
		metrics.VotesCast.WithLabelValues(string(in.Type), "error").Inc()
		return nil, err
	}
	metrics.VotesCast.WithLabelValues(string(in.Type), "stored").Inc()
	return stored, nil
}

func (l *VoteLedger) find(ctx context.Context, userID string, t models.FeedbackType, itemID string) (*models.Vote, error) {
	var vote models.Vote
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND feedback_type = ? AND item_id = ?", userID, t, itemID).
		First(&vote).Error
	if err != nil {
		return nil, apperr.Storage("read vote", err)
	}
	return &vote, nil
}

// Tally counts up and down votes on one item across all users.
func (l *VoteLedger) Tally(ctx context.Context, t models.FeedbackType, itemID string) (models.Tally, error) {
	itemID = strings.TrimSpace(itemID)
	if !t.Valid() {
		return models.Tally{}, apperr.Invalid("type", "unsupported feedback type")
	}
	if itemID == "" {
		return models.Tally{}, apperr.Invalid("itemId", "is required")
	}

	var rows []struct {
		Value int
		Count int64
	}
	err := l.db.WithContext(ctx).Model(&models.Vote{}).
		Select("value, count(*) AS count").
		Where("feedback_type = ? AND item_id = ?", t, itemID).
		Group("value").
		Scan(&rows).Error
	if err != nil {
		return models.Tally{}, apperr.Storage("tally votes", err)
	}

	var tally models.Tally
	for _, r := range rows {
		switch r.Value {
		case models.VoteUp:
			tally.Up = r.Count
		case models.VoteDown:
			tally.Down = r.Count
		}
	}
	return tally, nil
}

// ListByUser returns every vote the user has cast, oldest first.
func (l *VoteLedger) ListByUser(ctx context.Context, userID string) ([]models.Vote, error) {
	votes := []models.Vote{}
	if err := l.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&votes).Error; err != nil {
		return nil, apperr.Storage("list votes", err)
	}
	return votes, nil
}
