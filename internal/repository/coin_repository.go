package repository

import (
	"context"
	"time"

	"github.com/honeynil/rotrade/internal/models"
)

//go:generate mockgen -source=coin_repository.go -destination=mocks/mock_coin_repository.go -package=mocks

// CoinRepository owns every write that touches users.coins. Each write
// changes the balance, the ledger and the source record together.
type CoinRepository interface {
	Deposit(ctx context.Context, deposit *models.Deposit) (newBalance int64, err error)
	FeatureListing(ctx context.Context, userID, listingID, cost int64, until time.Time) (newBalance int64, err error)
	ListDeposits(ctx context.Context, userID *int64) ([]models.Deposit, error)
	ListTransactions(ctx context.Context, userID int64) ([]models.CoinTransaction, error)
	CheckLedger(ctx context.Context, userID int64) (models.LedgerCheck, error)
}
