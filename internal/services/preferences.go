package services

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coinpulse/internal/apperr"
	"coinpulse/internal/models"
	"coinpulse/internal/validation"
)

// PreferencesInput is a full replacement of a user's preferences.
type PreferencesInput struct {
	Assets       []models.Asset       `json:"assets" validate:"required,min=1,dive,asset"`
	InvestorType models.InvestorType  `json:"investorType" validate:"required,investor_type"`
	ContentTypes []models.ContentType `json:"contentTypes" validate:"required,min=1,dive,content_type"`
}

// PreferenceStore persists one preferences row per user.
type PreferenceStore struct {
	db *gorm.DB
}

func NewPreferenceStore(db *gorm.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Save validates in and replaces the stored row wholesale. Duplicates are
// collapsed keeping first-seen order.
func (s *PreferenceStore) Save(ctx context.Context, userID string, in PreferencesInput) (*models.Preferences, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	prefs := models.Preferences{
		UserID:       userID,
		Assets:       datatypes.JSONSlice[models.Asset](dedupe(in.Assets)),
		InvestorType: in.InvestorType,
		ContentTypes: datatypes.JSONSlice[models.ContentType](dedupe(in.ContentTypes)),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"assets", "investor_type", "content_types", "updated_at"}),
	}).Create(&prefs).Error
	if err != nil {
		return nil, apperr.Storage("save preferences", err)
	}
	return s.Load(ctx, userID)
}

// Load returns the stored preferences, or empty ones if none were saved.
func (s *PreferenceStore) Load(ctx context.Context, userID string) (*models.Preferences, error) {
	var prefs models.Preferences
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EmptyPreferences(userID), nil
	}
	if err != nil {
		return nil, apperr.Storage("load preferences", err)
	}
	if prefs.Assets == nil {
		prefs.Assets = datatypes.JSONSlice[models.Asset]{}
	}
	if prefs.ContentTypes == nil {
		prefs.ContentTypes = datatypes.JSONSlice[models.ContentType]{}
	}
	return &prefs, nil
}

func dedupe[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
