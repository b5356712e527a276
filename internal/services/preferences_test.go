package services

import (
	"context"
	"errors"
	"testing"

	"coinpulse/internal/apperr"
	"coinpulse/internal/models"
	"coinpulse/internal/testinfra"
)

func newUser(t *testing.T, accounts *AccountService, email string) *models.User {
	t.Helper()
	u, err := accounts.Register(context.Background(), "Test User", email, "secret1")
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return u
}

func TestPreferencesLoadEmpty(t *testing.T) {
	conn := testinfra.NewSQLite(t)
	user := newUser(t, NewAccountService(conn), "ann@example.com")

	prefs, err := NewPreferenceStore(conn).Load(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if prefs.Assets == nil || len(prefs.Assets) != 0 {
		t.Errorf("Assets = %#v, want empty non-nil", prefs.Assets)
	}
	if prefs.InvestorType != "" || len(prefs.ContentTypes) != 0 {
		t.Errorf("unexpected preferences %+v", prefs)
	}
}

func TestPreferencesSaveReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	conn := testinfra.NewSQLite(t)
	user := newUser(t, NewAccountService(conn), "ann@example.com")
	store := NewPreferenceStore(conn)

	_, err := store.Save(ctx, user.ID, PreferencesInput{
		Assets:       []models.Asset{models.AssetBTC, models.AssetETH, models.AssetBTC},
		InvestorType: models.InvestorHODLer,
		ContentTypes: []models.ContentType{models.ContentNews, models.ContentFun},
	})
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}

	saved, err := store.Save(ctx, user.ID, PreferencesInput{
		Assets:       []models.Asset{models.AssetSOL},
		InvestorType: models.InvestorDayTrader,
		ContentTypes: []models.ContentType{models.ContentCharts},
	})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if len(saved.Assets) != 1 || saved.Assets[0] != models.AssetSOL {
		t.Errorf("Assets = %v, want [SOL]", saved.Assets)
	}
	if saved.InvestorType != models.InvestorDayTrader {
		t.Errorf("InvestorType = %q", saved.InvestorType)
	}
	if len(saved.ContentTypes) != 1 || saved.ContentTypes[0] != models.ContentCharts {
		t.Errorf("ContentTypes = %v", saved.ContentTypes)
	}

	var rows int64
	conn.Model(&models.Preferences{}).Where("user_id = ?", user.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("preference rows = %d, want 1", rows)
	}
}

func TestPreferencesSaveDeduplicates(t *testing.T) {
	conn := testinfra.NewSQLite(t)
	user := newUser(t, NewAccountService(conn), "ann@example.com")

	saved, err := NewPreferenceStore(conn).Save(context.Background(), user.ID, PreferencesInput{
		Assets:       []models.Asset{models.AssetETH, models.AssetBTC, models.AssetETH},
		InvestorType: models.InvestorHODLer,
		ContentTypes: []models.ContentType{models.ContentFun, models.ContentFun},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := []models.Asset{models.AssetETH, models.AssetBTC}
	if len(saved.Assets) != len(want) || saved.Assets[0] != want[0] || saved.Assets[1] != want[1] {
		t.Errorf("Assets = %v, want %v", saved.Assets, want)
	}
	if len(saved.ContentTypes) != 1 {
		t.Errorf("ContentTypes = %v", saved.ContentTypes)
	}
}

func TestPreferencesSaveValidation(t *testing.T) {
	conn := testinfra.NewSQLite(t)
	user := newUser(t, NewAccountService(conn), "ann@example.com")
	store := NewPreferenceStore(conn)

	tests := []struct {
		name  string
		in    PreferencesInput
		field string
	}{
		{
			name:  "no assets",
			in:    PreferencesInput{InvestorType: models.InvestorHODLer, ContentTypes: []models.ContentType{models.ContentFun}},
			field: "assets",
		},
		{
			name:  "unknown asset",
			in:    PreferencesInput{Assets: []models.Asset{"XRP"}, InvestorType: models.InvestorHODLer, ContentTypes: []models.ContentType{models.ContentFun}},
			field: "assets",
		},
		{
			name:  "unknown investor type",
			in:    PreferencesInput{Assets: []models.Asset{models.AssetBTC}, InvestorType: "Whale", ContentTypes: []models.ContentType{models.ContentFun}},
			field: "investorType",
		},
		{
			name:  "unknown content type",
			in:    PreferencesInput{Assets: []models.Asset{models.AssetBTC}, InvestorType: models.InvestorHODLer, ContentTypes: []models.ContentType{"Weather"}},
			field: "contentTypes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(context.Background(), user.ID, tt.in)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Save = %v, want validation error", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}

	prefs, _ := store.Load(context.Background(), user.ID)
	if len(prefs.Assets) != 0 {
		t.Errorf("rejected saves must not write, got %+v", prefs)
	}
}
