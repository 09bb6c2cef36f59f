package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

type PostgresBlockRepository struct {
	db *sql.DB
}

func NewPostgresBlockRepository(db *sql.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

// Block is idempotent: blocking someone twice keeps a single edge.
func (r *PostgresBlockRepository) Block(ctx context.Context, userID, blockedUserID int64) (err error) {
	ctx, _, done := instrument(ctx, "BlockUser")
	defer func() { done(err) }()

	query := `
		INSERT INTO blocked_users (user_id, blocked_user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, blocked_user_id) DO NOTHING
	`
	if _, err = r.db.ExecContext(ctx, query, userID, blockedUserID); err != nil {
		if pqCode(err) == foreignKeyViolation {
			return pkgerrors.ErrUserNotFound
		}
		slog.Error("failed to block user", "method", "Block", "user_id", userID, "blocked_user_id", blockedUserID, "error", err)
		return fmt.Errorf("failed to block user: %w", err)
	}
	slog.Info("user blocked", "method", "Block", "user_id", userID, "blocked_user_id", blockedUserID)
	return nil
}

func (r *PostgresBlockRepository) Unblock(ctx context.Context, userID, blockedUserID int64) (err error) {
	ctx, _, done := instrument(ctx, "UnblockUser")
	defer func() { done(err) }()

	_, err = r.db.ExecContext(ctx, `DELETE FROM blocked_users WHERE user_id = $1 AND blocked_user_id = $2`, userID, blockedUserID)
	if err != nil {
		slog.Error("failed to unblock user", "method", "Unblock", "user_id", userID, "blocked_user_id", blockedUserID, "error", err)
		return fmt.Errorf("failed to unblock user: %w", err)
	}
	return nil
}

func (r *PostgresBlockRepository) IsBlocked(ctx context.Context, userID, blockedUserID int64) (_ bool, err error) {
	ctx, _, done := instrument(ctx, "IsBlocked")
	defer func() { done(err) }()

	var blocked bool
	query := `SELECT EXISTS (SELECT 1 FROM blocked_users WHERE user_id = $1 AND blocked_user_id = $2)`
	if err = r.db.QueryRowContext(ctx, query, userID, blockedUserID).Scan(&blocked); err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return blocked, nil
}

func (r *PostgresBlockRepository) ListBlocked(ctx context.Context, userID int64) (_ []int64, err error) {
	ctx, _, done := instrument(ctx, "ListBlocked")
	defer func() { done(err) }()

	rows, err := r.db.QueryContext(ctx, `SELECT blocked_user_id FROM blocked_users WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked users: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan blocked user: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocked users: %w", err)
	}
	return ids, nil
}
