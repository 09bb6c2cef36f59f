package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/rotrade/internal/events"
	"github.com/honeynil/rotrade/internal/infrastructure/observability"
	"github.com/honeynil/rotrade/internal/infrastructure/redis"
	"github.com/honeynil/rotrade/internal/models"
	"github.com/honeynil/rotrade/internal/repository"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=coin_service.go -destination=mocks/mock_coin_service.go -package=mocks

type CoinService interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	Deposit(ctx context.Context, userID int64, amountRub decimal.Decimal) (*models.Deposit, error)
	Deposits(ctx context.Context, userID *int64) ([]models.Deposit, error)
	FeatureListing(ctx context.Context, userID, listingID int64) (*models.FeatureResult, error)
	Transactions(ctx context.Context, userID int64) ([]models.CoinTransaction, error)
	Reconcile(ctx context.Context, userID int64) error
}

type coinService struct {
	coinRepo    repository.CoinRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	cache       listingsCache
	publisher   events.Publisher
	now         func() time.Time
}

func NewCoinService(
	coinRepo repository.CoinRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	cache redis.RedisClient,
	publisher events.Publisher,
) *coinService {
	return &coinService{
		coinRepo:    coinRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		cache:       listingsCache{client: cache, ttl: 0},
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *coinService) Balance(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, _, done := startSpan(ctx, "GetBalance")
	defer func() { done(err) }()

	if userID <= 0 {
		return 0, pkgerrors.Invalid("User ID required")
	}
	coins, err := s.userRepo.GetCoins(ctx, userID)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: failed to get balance", pkgerrors.ErrInternal)
	}
	return coins, nil
}

func (s *coinService) Deposit(ctx context.Context, userID int64, amountRub decimal.Decimal) (_ *models.Deposit, err error) {
	ctx, span, done := startSpan(ctx, "Deposit")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("amount_rub", amountRub.String()))

	if userID <= 0 {
		return nil, pkgerrors.Invalid("User ID and amount required")
	}
	if !amountRub.IsPositive() {
		return nil, pkgerrors.Invalid("Amount must be positive")
	}
	// amount_rub is NUMERIC(12,2); coins must follow from the stored value.
	if !amountRub.Equal(amountRub.Round(2)) {
		return nil, pkgerrors.Invalid("Amount must have at most 2 decimal places")
	}
	amountRub = amountRub.Round(2)
	if amountRub.GreaterThan(models.MaxDepositRub) {
		return nil, pkgerrors.Invalid("Amount must not exceed %s RUB", models.MaxDepositRub.String())
	}
	coins := models.CoinsFor(amountRub)
	if coins <= 0 {
		return nil, pkgerrors.Invalid("Amount too small to buy a coin")
	}

	deposit := &models.Deposit{
		UserID:        userID,
		AmountRub:     amountRub,
		CoinsReceived: coins,
		Status:        models.DepositCompleted,
	}
	balance, err := s.coinRepo.Deposit(ctx, deposit)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) || stderrors.Is(err, pkgerrors.ErrInvalidInput) {
			return nil, err
		}
		slog.Error("failed to process deposit", "user_id", userID, "amount_rub", amountRub.String(), "error", err)
		return nil, fmt.Errorf("%w: failed to process deposit", pkgerrors.ErrInternal)
	}

	publish(ctx, s.publisher, events.TopicCoins, events.New(events.DepositCompleted, userID, map[string]any{
		"deposit_id":     deposit.ID,
		"coins_received": deposit.CoinsReceived,
		"balance":        balance,
	}))

	slog.Info("deposit completed", "deposit_id", deposit.ID, "user_id", userID, "coins", coins, "balance", balance)
	return deposit, nil
}

func (s *coinService) Deposits(ctx context.Context, userID *int64) (_ []models.Deposit, err error) {
	ctx, _, done := startSpan(ctx, "ListDeposits")
	defer func() { done(err) }()

	deposits, err := s.coinRepo.ListDeposits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list deposits", pkgerrors.ErrInternal)
	}
	return deposits, nil
}

// FeatureListing spends FeatureCost coins to boost a listing for
// FeatureDuration.
func (s *coinService) FeatureListing(ctx context.Context, userID, listingID int64) (_ *models.FeatureResult, err error) {
	ctx, span, done := startSpan(ctx, "FeatureListing")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Int64("listing_id", listingID))

	if userID <= 0 || listingID <= 0 {
		return nil, pkgerrors.Invalid("User ID and listing ID required")
	}
	if err = ownsActiveListing(ctx, s.listingRepo, listingID, userID); err != nil {
		return nil, err
	}

	until := s.now().UTC().Add(models.FeatureDuration)
	balance, err := s.coinRepo.FeatureListing(ctx, userID, listingID, models.FeatureCost, until)
	if err != nil {
		switch {
		case stderrors.Is(err, pkgerrors.ErrInsufficientCoins),
			stderrors.Is(err, pkgerrors.ErrListingNotFound),
			stderrors.Is(err, pkgerrors.ErrUserNotFound):
			return nil, err
		}
		slog.Error("failed to feature listing", "user_id", userID, "listing_id", listingID, "error", err)
		return nil, fmt.Errorf("%w: failed to feature listing", pkgerrors.ErrInternal)
	}

	s.cache.invalidate(ctx)
	publish(ctx, s.publisher, events.TopicCoins, events.New(events.ListingFeatured, userID, map[string]any{
		"listing_id":     listingID,
		"featured_until": until,
		"balance":        balance,
	}))

	slog.Info("listing featured", "listing_id", listingID, "user_id", userID, "balance", balance)
	return &models.FeatureResult{
		Success:       true,
		ListingID:     listingID,
		Coins:         balance,
		FeaturedUntil: until,
	}, nil
}

func (s *coinService) Transactions(ctx context.Context, userID int64) (_ []models.CoinTransaction, err error) {
	ctx, _, done := startSpan(ctx, "ListTransactions")
	defer func() { done(err) }()

	if userID <= 0 {
		return nil, pkgerrors.Invalid("User ID required")
	}
	txs, err := s.coinRepo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list transactions", pkgerrors.ErrInternal)
	}
	return txs, nil
}

// Reconcile compares the stored balance with the ledger and reports any
// drift. It never repairs the balance.
func (s *coinService) Reconcile(ctx context.Context, userID int64) (err error) {
	ctx, _, done := startSpan(ctx, "ReconcileLedger")
	defer func() { done(err) }()

	check, err := s.coinRepo.CheckLedger(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check ledger for user %d: %w", userID, err)
	}
	if drift := check.Drift(); drift != 0 {
		observability.LedgerDrift.Inc()
		slog.Error("ledger drift detected",
			"user_id", userID,
			"balance", check.Balance,
			"ledger_sum", check.LedgerSum,
			"drift", drift)
		return nil
	}
	slog.Debug("ledger consistent", "user_id", userID, "balance", check.Balance)
	return nil
}
