package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeposit_AmountMarshalsAsNumber(t *testing.T) {
	raw, err := json.Marshal(Deposit{ID: 1, UserID: 2, AmountRub: decimal.RequireFromString("100.50"), CoinsReceived: 170})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount_rub":100.5`)
	assert.NotContains(t, string(raw), `"amount_rub":"`)

	var back Deposit
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.AmountRub.Equal(decimal.RequireFromString("100.5")))
}

func TestCoinsFor(t *testing.T) {
	tests := []struct {
		amount string
		coins  int64
	}{
		{"100", 170},
		{"1.5", 2},
		{"0.5", 0},
		{"5.88", 9},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.coins, CoinsFor(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestListing_FeaturedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name    string
		listing Listing
		want    bool
	}{
		{"Active", Listing{IsFeatured: true, FeaturedUntil: &future}, true},
		{"Expired", Listing{IsFeatured: true, FeaturedUntil: &past}, false},
		{"NoDeadline", Listing{IsFeatured: true}, false},
		{"FlagUnset", Listing{FeaturedUntil: &future}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.listing.FeaturedAt(now))
		})
	}
}
