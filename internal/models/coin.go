package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// FeatureCost is the price in coins of one featuring period.
	FeatureCost     int64 = 10
	FeatureDuration       = 7 * 24 * time.Hour
)

// CoinsPerRub is the deposit exchange rate.
var CoinsPerRub = decimal.RequireFromString("1.7")

// MaxDepositRub caps one deposit.
var MaxDepositRub = decimal.NewFromInt(1_000_000)

func init() {
	// amount_rub goes out as a JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

// CoinsFor converts a deposit in rubles into coins, truncating fractions.
func CoinsFor(amountRub decimal.Decimal) int64 {
	return amountRub.Mul(CoinsPerRub).Floor().IntPart()
}

type Deposit struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	AmountRub     decimal.Decimal `json:"amount_rub"`
	CoinsReceived int64           `json:"coins_received"`
	Status        DepositStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type DepositStatus string

const (
	DepositCompleted DepositStatus = "completed"
)

type CoinTransaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TransactionType string

const (
	TypeDeposit TransactionType = "deposit"
	TypeFeature TransactionType = "feature"
)

// FeatureResult describes a successful featuring purchase.
type FeatureResult struct {
	Success       bool      `json:"success"`
	ListingID     int64     `json:"listing_id"`
	Coins         int64     `json:"coins"`
	FeaturedUntil time.Time `json:"featured_until"`
}

// LedgerCheck compares the stored balance with the ledger sum.
type LedgerCheck struct {
	UserID    int64
	Balance   int64
	LedgerSum int64
}

func (c LedgerCheck) Drift() int64 { return c.Balance - c.LedgerSum }
