package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/honeynil/rotrade/internal/models"
	repository "github.com/honeynil/rotrade/internal/repository/postgres"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creditQuery  = regexp.QuoteMeta(`UPDATE users SET coins = coins + $1 WHERE id = $2 AND is_removed = false RETURNING coins`)
	depositQuery = regexp.QuoteMeta(`INSERT INTO deposits (user_id, amount_rub, coins_received, status)`)
	ledgerQuery  = regexp.QuoteMeta(`INSERT INTO coin_transactions (user_id, amount, type, description) VALUES ($1, $2, $3, $4)`)
	lockQuery    = regexp.QuoteMeta(`SELECT coins FROM users WHERE id = $1 AND is_removed = false FOR UPDATE`)
	featureQuery = regexp.QuoteMeta(`UPDATE listings SET is_featured = true, featured_until = $1`)
	debitQuery   = regexp.QuoteMeta(`UPDATE users SET coins = coins - $1 WHERE id = $2 RETURNING coins`)
)

func TestPostgresCoinRepository_Deposit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresCoinRepository(db)
	ctx := context.Background()

	t.Run("HundredRublesBuy170Coins", func(t *testing.T) {
		amount := decimal.NewFromInt(100)
		deposit := &models.Deposit{UserID: 1, AmountRub: amount, CoinsReceived: models.CoinsFor(amount)}
		require.Equal(t, int64(170), deposit.CoinsReceived)

		mock.ExpectBegin()
		mock.ExpectQuery(creditQuery).
			WithArgs(int64(170), int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(170))
		mock.ExpectQuery(depositQuery).
			WithArgs(int64(1), amount, int64(170), models.DepositCompleted).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))
		mock.ExpectExec(ledgerQuery).
			WithArgs(int64(1), int64(170), models.TypeDeposit, "Deposit #11: 100.00 RUB").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		balance, err := repo.Deposit(ctx, deposit)
		require.NoError(t, err)
		assert.Equal(t, int64(170), balance)
		assert.Equal(t, int64(11), deposit.ID)
		assert.Equal(t, models.DepositCompleted, deposit.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownUser", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(creditQuery).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Deposit(ctx, &models.Deposit{UserID: 9, AmountRub: decimal.NewFromInt(1), CoinsReceived: 1})
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LedgerFailureRollsBackEverything", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(creditQuery).WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(17))
		mock.ExpectQuery(depositQuery).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, time.Now()))
		mock.ExpectExec(ledgerQuery).WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		balance, err := repo.Deposit(ctx, &models.Deposit{UserID: 1, AmountRub: decimal.NewFromInt(10), CoinsReceived: 17})
		assert.Equal(t, int64(0), balance)
		assert.Contains(t, err.Error(), "failed to append ledger entry")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackFailureKeepsCause", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(creditQuery).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback().WillReturnError(fmt.Errorf("connection lost"))

		_, err := repo.Deposit(ctx, &models.Deposit{UserID: 9, AmountRub: decimal.NewFromInt(1), CoinsReceived: 1})
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
		assert.Contains(t, err.Error(), "rollback failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ZeroCoinsRejected", func(t *testing.T) {
		_, err := repo.Deposit(ctx, &models.Deposit{UserID: 1, AmountRub: decimal.RequireFromString("0.5"), CoinsReceived: 0})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCoinRepository_FeatureListing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresCoinRepository(db)
	ctx := context.Background()
	until := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

	t.Run("ExactlyTenCoinsLeavesZero", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(10))
		mock.ExpectExec(featureQuery).WithArgs(until, int64(5), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(debitQuery).WithArgs(int64(10), int64(1)).WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(0))
		mock.ExpectExec(ledgerQuery).
			WithArgs(int64(1), int64(-10), models.TypeFeature, "Featured listing #5").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		balance, err := repo.FeatureListing(ctx, 1, 5, models.FeatureCost, until)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NineCoinsWritesNothing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(9))
		mock.ExpectRollback()

		balance, err := repo.FeatureListing(ctx, 1, 5, models.FeatureCost, until)
		assert.ErrorIs(t, err, pkgerrors.ErrInsufficientCoins)
		assert.Equal(t, int64(0), balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListingNotOwnedOrInactive", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(50))
		mock.ExpectExec(featureQuery).WithArgs(until, int64(6), int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.FeatureListing(ctx, 1, 6, models.FeatureCost, until)
		assert.ErrorIs(t, err, pkgerrors.ErrListingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownUser", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.FeatureListing(ctx, 9, 5, models.FeatureCost, until)
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCoinRepository_Lists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresCoinRepository(db)
	ctx := context.Background()

	t.Run("Deposits", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM deposits WHERE ($1::bigint IS NULL OR user_id = $1)`)).
			WithArgs(nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount_rub", "coins_received", "status", "created_at"}).
				AddRow(1, 1, "100.00", 170, "completed", time.Now()))

		deposits, err := repo.ListDeposits(ctx, nil)
		require.NoError(t, err)
		require.Len(t, deposits, 1)
		assert.True(t, decimal.NewFromInt(100).Equal(deposits[0].AmountRub))
		assert.Equal(t, models.DepositCompleted, deposits[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Transactions", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM coin_transactions WHERE user_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "type", "description", "created_at"}).
				AddRow(2, 1, -10, "feature", "Featured listing #5", time.Now()).
				AddRow(1, 1, 170, "deposit", "Deposit #1: 100.00 RUB", time.Now()))

		txs, err := repo.ListTransactions(ctx, 1)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, int64(-10), txs[0].Amount)
		assert.Equal(t, models.TypeFeature, txs[0].Type)
		assert.Equal(t, models.TypeDeposit, txs[1].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CheckLedger", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`COALESCE((SELECT SUM(t.amount) FROM coin_transactions t WHERE t.user_id = u.id), 0)`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"coins", "sum"}).AddRow(160, 160))

		check, err := repo.CheckLedger(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), check.Drift())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
