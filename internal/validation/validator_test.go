package validation

import (
	"errors"
	"strings"
	"testing"

	"coinpulse/internal/apperr"
	"coinpulse/internal/models"
)

type prefsInput struct {
	Assets       []models.Asset       `json:"assets" validate:"required,min=1,dive,asset"`
	InvestorType models.InvestorType  `json:"investorType" validate:"required,investor_type"`
	ContentTypes []models.ContentType `json:"contentTypes" validate:"required,min=1,dive,content_type"`
}

type voteInput struct {
	Type   models.FeedbackType `json:"type" validate:"required,feedback_type"`
	ItemID string              `json:"itemId" validate:"required,max=8"`
	Value  int                 `json:"value" validate:"vote_value"`
}

type itemInput struct {
	ItemID string `json:"itemId" validate:"required,item_id"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		wantField string
	}{
		{
			name: "valid preferences",
			in: &prefsInput{
				Assets:       []models.Asset{"BTC", "ETH"},
				InvestorType: "HODLer",
				ContentTypes: []models.ContentType{"Market News"},
			},
		},
		{
			name: "unknown asset",
			in: &prefsInput{
				Assets:       []models.Asset{"BTC", "XRP"},
				InvestorType: "HODLer",
				ContentTypes: []models.ContentType{"Fun"},
			},
			wantField: "assets",
		},
		{
			name: "empty assets",
			in: &prefsInput{
				Assets:       []models.Asset{},
				InvestorType: "HODLer",
				ContentTypes: []models.ContentType{"Fun"},
			},
			wantField: "assets",
		},
		{
			name: "unknown investor type",
			in: &prefsInput{
				Assets:       []models.Asset{"BTC"},
				InvestorType: "Whale",
				ContentTypes: []models.ContentType{"Fun"},
			},
			wantField: "investorType",
		},
		{
			name: "unknown content type",
			in: &prefsInput{
				Assets:       []models.Asset{"BTC"},
				InvestorType: "HODLer",
				ContentTypes: []models.ContentType{"Gossip"},
			},
			wantField: "contentTypes",
		},
		{
			name: "valid vote",
			in:   &voteInput{Type: "news", ItemID: "n1", Value: -1},
		},
		{
			name:      "zero vote value",
			in:        &voteInput{Type: "news", ItemID: "n1", Value: 0},
			wantField: "value",
		},
		{
			name:      "unknown feedback type",
			in:        &voteInput{Type: "weather", ItemID: "n1", Value: 1},
			wantField: "type",
		},
		{
			name:      "item id too long",
			in:        &voteInput{Type: "news", ItemID: "123456789", Value: 1},
			wantField: "itemId",
		},
		{
			name: "item id at limit counts runes",
			in:   &itemInput{ItemID: strings.Repeat("é", models.MaxItemIDLength)},
		},
		{
			name:      "item id over limit",
			in:        &itemInput{ItemID: strings.Repeat("x", models.MaxItemIDLength+1)},
			wantField: "itemId",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Struct() = %v, want *apperr.ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (message %q)", ve.Field, tt.wantField, ve.Message)
			}
			if ve.Message == "" {
				t.Error("empty message")
			}
		})
	}
}
