package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/rotrade/internal/models"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type PostgresCoinRepository struct {
	db *sql.DB
}

func NewPostgresCoinRepository(db *sql.DB) *PostgresCoinRepository {
	return &PostgresCoinRepository{db: db}
}

// Deposit credits the user, stores the deposit and appends the ledger row
// in a single transaction.
func (r *PostgresCoinRepository) Deposit(ctx context.Context, d *models.Deposit) (newBalance int64, err error) {
	ctx, span, done := instrument(ctx, "Deposit")
	defer func() { done(err) }()

	if d.CoinsReceived <= 0 {
		return 0, pkgerrors.Invalid("deposit must yield at least one coin")
	}
	if d.Status == "" {
		d.Status = models.DepositCompleted
	}
	span.SetAttributes(
		attribute.Int64("user_id", d.UserID),
		attribute.String("amount_rub", d.AmountRub.String()),
		attribute.Int64("coins", d.CoinsReceived),
	)

	creditQuery := `UPDATE users SET coins = coins + $1 WHERE id = $2 AND is_removed = false RETURNING coins`
	depositQuery := `
		INSERT INTO deposits (user_id, amount_rub, coins_received, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	ledgerQuery := `INSERT INTO coin_transactions (user_id, amount, type, description) VALUES ($1, $2, $3, $4)`

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, creditQuery, d.CoinsReceived, d.UserID).Scan(&newBalance)
		if stderrors.Is(err, sql.ErrNoRows) {
			return pkgerrors.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to credit coins: %w", err)
		}

		if err := tx.QueryRowContext(ctx, depositQuery, d.UserID, d.AmountRub, d.CoinsReceived, d.Status).
			Scan(&d.ID, &d.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert deposit: %w", err)
		}

		description := fmt.Sprintf("Deposit #%d: %s RUB", d.ID, d.AmountRub.StringFixed(2))
		if _, err := tx.ExecContext(ctx, ledgerQuery, d.UserID, d.CoinsReceived, models.TypeDeposit, description); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("deposit failed", "method", "Deposit", "user_id", d.UserID, "error", err)
		return 0, err
	}

	slog.Info("deposit completed", "method", "Deposit", "deposit_id", d.ID, "user_id", d.UserID, "coins", d.CoinsReceived, "balance", newBalance)
	return newBalance, nil
}

// FeatureListing locks the user row, checks the balance, marks the listing
// featured until the given time, debits cost coins and records the debit.
// Nothing is written when the balance is short.
func (r *PostgresCoinRepository) FeatureListing(ctx context.Context, userID, listingID, cost int64, until time.Time) (newBalance int64, err error) {
	ctx, span, done := instrument(ctx, "FeatureListing")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Int64("listing_id", listingID))

	lockQuery := `SELECT coins FROM users WHERE id = $1 AND is_removed = false FOR UPDATE`
	featureQuery := `
		UPDATE listings SET is_featured = true, featured_until = $1
		WHERE id = $2 AND user_id = $3 AND is_active = true
	`
	debitQuery := `UPDATE users SET coins = coins - $1 WHERE id = $2 RETURNING coins`
	ledgerQuery := `INSERT INTO coin_transactions (user_id, amount, type, description) VALUES ($1, $2, $3, $4)`

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		var coins int64
		err := tx.QueryRowContext(ctx, lockQuery, userID).Scan(&coins)
		if stderrors.Is(err, sql.ErrNoRows) {
			return pkgerrors.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock user balance: %w", err)
		}
		if coins < cost {
			return pkgerrors.ErrInsufficientCoins
		}

		res, err := tx.ExecContext(ctx, featureQuery, until, listingID, userID)
		if err != nil {
			return fmt.Errorf("failed to feature listing: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return pkgerrors.ErrListingNotFound
		}

		if err := tx.QueryRowContext(ctx, debitQuery, cost, userID).Scan(&newBalance); err != nil {
			return fmt.Errorf("failed to debit coins: %w", err)
		}

		description := fmt.Sprintf("Featured listing #%d", listingID)
		if _, err := tx.ExecContext(ctx, ledgerQuery, userID, -cost, models.TypeFeature, description); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrInsufficientCoins) {
			slog.Warn("insufficient coins", "method", "FeatureListing", "user_id", userID, "listing_id", listingID)
		} else {
			slog.Error("feature listing failed", "method", "FeatureListing", "user_id", userID, "listing_id", listingID, "error", err)
		}
		return 0, err
	}

	slog.Info("listing featured", "method", "FeatureListing", "user_id", userID, "listing_id", listingID, "until", until, "balance", newBalance)
	return newBalance, nil
}

func (r *PostgresCoinRepository) ListDeposits(ctx context.Context, userID *int64) (_ []models.Deposit, err error) {
	ctx, _, done := instrument(ctx, "ListDeposits")
	defer func() { done(err) }()

	query := `
		SELECT id, user_id, amount_rub, coins_received, status, created_at
		FROM deposits
		WHERE ($1::bigint IS NULL OR user_id = $1)
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	deposits := make([]models.Deposit, 0)
	for rows.Next() {
		var d models.Deposit
		if err = rows.Scan(&d.ID, &d.UserID, &d.AmountRub, &d.CoinsReceived, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposits: %w", err)
	}
	return deposits, nil
}

func (r *PostgresCoinRepository) ListTransactions(ctx context.Context, userID int64) (_ []models.CoinTransaction, err error) {
	ctx, _, done := instrument(ctx, "ListCoinTransactions")
	defer func() { done(err) }()

	query := `
		SELECT id, user_id, amount, type, description, created_at
		FROM coin_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coin transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]models.CoinTransaction, 0)
	for rows.Next() {
		var t models.CoinTransaction
		if err = rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan coin transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coin transactions: %w", err)
	}
	return txs, nil
}

func (r *PostgresCoinRepository) CheckLedger(ctx context.Context, userID int64) (_ models.LedgerCheck, err error) {
	ctx, _, done := instrument(ctx, "CheckLedger")
	defer func() { done(err) }()

	query := `
		SELECT u.coins, COALESCE((SELECT SUM(t.amount) FROM coin_transactions t WHERE t.user_id = u.id), 0)
		FROM users u
		WHERE u.id = $1
	`
	check := models.LedgerCheck{UserID: userID}
	err = r.db.QueryRowContext(ctx, query, userID).Scan(&check.Balance, &check.LedgerSum)
	if stderrors.Is(err, sql.ErrNoRows) {
		return check, pkgerrors.ErrUserNotFound
	}
	if err != nil {
		return check, fmt.Errorf("failed to check ledger: %w", err)
	}
	return check, nil
}
