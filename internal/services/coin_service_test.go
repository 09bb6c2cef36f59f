package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/rotrade/internal/events"
	eventmocks "github.com/honeynil/rotrade/internal/events/mocks"
	redismocks "github.com/honeynil/rotrade/internal/infrastructure/redis/mocks"
	"github.com/honeynil/rotrade/internal/models"
	"github.com/honeynil/rotrade/internal/repository/mocks"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coinFixture struct {
	svc       *coinService
	coins     *mocks.MockCoinRepository
	listings  *mocks.MockListingRepository
	users     *mocks.MockUserRepository
	cache     *redismocks.MockRedisClient
	publisher *eventmocks.MockPublisher
}

func newCoinFixture(t *testing.T) coinFixture {
	ctrl := gomock.NewController(t)
	f := coinFixture{
		coins:     mocks.NewMockCoinRepository(ctrl),
		listings:  mocks.NewMockListingRepository(ctrl),
		users:     mocks.NewMockUserRepository(ctrl),
		cache:     redismocks.NewMockRedisClient(ctrl),
		publisher: eventmocks.NewMockPublisher(ctrl),
	}
	f.svc = NewCoinService(f.coins, f.listings, f.users, f.cache, f.publisher)
	return f
}

func TestCoinService_Balance(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newCoinFixture(t)
		f.users.EXPECT().GetCoins(gomock.Any(), int64(1)).Return(int64(42), nil)

		coins, err := f.svc.Balance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), coins)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newCoinFixture(t)
		f.users.EXPECT().GetCoins(gomock.Any(), int64(9)).Return(int64(0), pkgerrors.ErrUserNotFound)

		_, err := f.svc.Balance(ctx, 9)
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
	})
}

func TestCoinService_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("HundredRublesBuys170Coins", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().Deposit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *models.Deposit) (int64, error) {
			assert.Equal(t, int64(1), d.UserID)
			assert.True(t, d.AmountRub.Equal(decimal.NewFromInt(100)))
			assert.Equal(t, int64(170), d.CoinsReceived)
			assert.Equal(t, models.DepositCompleted, d.Status)
			d.ID = 11
			return 170, nil
		})
		f.publisher.EXPECT().Publish(gomock.Any(), events.TopicCoins, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, evt events.Event) error {
				assert.Equal(t, events.DepositCompleted, evt.Type)
				assert.JSONEq(t, `{"deposit_id":11,"coins_received":170,"balance":170}`, string(evt.Payload))
				return nil
			})

		deposit, err := f.svc.Deposit(ctx, 1, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Equal(t, int64(11), deposit.ID)
		assert.Equal(t, int64(170), deposit.CoinsReceived)
	})

	t.Run("FractionalCoinsTruncated", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().Deposit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *models.Deposit) (int64, error) {
			assert.Equal(t, int64(2), d.CoinsReceived)
			return 2, nil
		})
		f.publisher.EXPECT().Publish(gomock.Any(), events.TopicCoins, gomock.Any()).Return(nil)

		_, err := f.svc.Deposit(ctx, 1, decimal.RequireFromString("1.5"))
		require.NoError(t, err)
	})

	t.Run("TrailingZerosAccepted", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().Deposit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *models.Deposit) (int64, error) {
			assert.Equal(t, "5.88", d.AmountRub.String())
			assert.Equal(t, int64(9), d.CoinsReceived)
			return 9, nil
		})
		f.publisher.EXPECT().Publish(gomock.Any(), events.TopicCoins, gomock.Any()).Return(nil)

		_, err := f.svc.Deposit(ctx, 1, decimal.RequireFromString("5.8800"))
		require.NoError(t, err)
	})

	t.Run("Validation", func(t *testing.T) {
		tests := []struct {
			name   string
			userID int64
			amount decimal.Decimal
			msg    string
		}{
			{"MissingUser", 0, decimal.NewFromInt(10), "User ID and amount required"},
			{"Zero", 1, decimal.Zero, "Amount must be positive"},
			{"Negative", 1, decimal.NewFromInt(-5), "Amount must be positive"},
			{"AboveCap", 1, decimal.NewFromInt(1_000_001), "Amount must not exceed 1000000 RUB"},
			{"BelowOneCoin", 1, decimal.RequireFromString("0.5"), "Amount too small to buy a coin"},
			{"TooPrecise", 1, decimal.RequireFromString("5.8849"), "Amount must have at most 2 decimal places"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newCoinFixture(t)

				_, err := f.svc.Deposit(ctx, tt.userID, tt.amount)
				assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
				assert.EqualError(t, err, tt.msg)
			})
		}
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().Deposit(gomock.Any(), gomock.Any()).Return(int64(0), fmt.Errorf("serialization failure"))

		_, err := f.svc.Deposit(ctx, 1, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, pkgerrors.ErrInternal)
	})
}

func TestCoinService_FeatureListing(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(models.FeatureDuration)

	t.Run("Success", func(t *testing.T) {
		f := newCoinFixture(t)
		f.svc.now = func() time.Time { return now }
		f.listings.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&models.Listing{ID: 5, UserID: 1, IsActive: true}, nil)
		f.coins.EXPECT().FeatureListing(gomock.Any(), int64(1), int64(5), models.FeatureCost, until).Return(int64(0), nil)
		f.cache.EXPECT().Del(gomock.Any(), activeListingsKey).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), events.TopicCoins, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, evt events.Event) error {
				assert.Equal(t, events.ListingFeatured, evt.Type)
				return nil
			})

		res, err := f.svc.FeatureListing(ctx, 1, 5)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, int64(5), res.ListingID)
		assert.Equal(t, int64(0), res.Coins)
		assert.Equal(t, until, res.FeaturedUntil)
	})

	t.Run("InsufficientCoins", func(t *testing.T) {
		f := newCoinFixture(t)
		f.svc.now = func() time.Time { return now }
		f.listings.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&models.Listing{ID: 5, UserID: 1, IsActive: true}, nil)
		f.coins.EXPECT().FeatureListing(gomock.Any(), int64(1), int64(5), models.FeatureCost, until).
			Return(int64(0), pkgerrors.ErrInsufficientCoins)

		res, err := f.svc.FeatureListing(ctx, 1, 5)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, pkgerrors.ErrInsufficientCoins)
	})

	t.Run("NotOwner", func(t *testing.T) {
		f := newCoinFixture(t)
		f.listings.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&models.Listing{ID: 5, UserID: 2, IsActive: true}, nil)

		_, err := f.svc.FeatureListing(ctx, 1, 5)
		assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
	})

	t.Run("MissingListing", func(t *testing.T) {
		f := newCoinFixture(t)
		f.listings.EXPECT().GetByID(gomock.Any(), int64(5)).Return(nil, pkgerrors.ErrListingNotFound)

		_, err := f.svc.FeatureListing(ctx, 1, 5)
		assert.ErrorIs(t, err, pkgerrors.ErrListingNotFound)
	})

	t.Run("InvalidIDs", func(t *testing.T) {
		f := newCoinFixture(t)

		_, err := f.svc.FeatureListing(ctx, 1, 0)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})
}

func TestCoinService_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("Consistent", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().CheckLedger(gomock.Any(), int64(1)).Return(models.LedgerCheck{UserID: 1, Balance: 170, LedgerSum: 170}, nil)

		assert.NoError(t, f.svc.Reconcile(ctx, 1))
	})

	t.Run("DriftIsReportedNotRepaired", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().CheckLedger(gomock.Any(), int64(1)).Return(models.LedgerCheck{UserID: 1, Balance: 180, LedgerSum: 170}, nil)

		assert.NoError(t, f.svc.Reconcile(ctx, 1))
	})

	t.Run("CheckFailure", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().CheckLedger(gomock.Any(), int64(1)).Return(models.LedgerCheck{}, fmt.Errorf("timeout"))

		assert.Error(t, f.svc.Reconcile(ctx, 1))
	})
}

func TestCoinService_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("Transactions", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().ListTransactions(gomock.Any(), int64(1)).
			Return([]models.CoinTransaction{{ID: 1, Amount: -10, Type: models.TypeFeature}}, nil)

		txs, err := f.svc.Transactions(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(-10), txs[0].Amount)
	})

	t.Run("DepositsForEveryone", func(t *testing.T) {
		f := newCoinFixture(t)
		f.coins.EXPECT().ListDeposits(gomock.Any(), nil).Return([]models.Deposit{{ID: 1}, {ID: 2}}, nil)

		deposits, err := f.svc.Deposits(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, deposits, 2)
	})
}

func TestDefaultAvatar(t *testing.T) {
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=a+b", DefaultAvatar("a b"))
}
