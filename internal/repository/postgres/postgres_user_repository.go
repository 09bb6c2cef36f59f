package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/honeynil/rotrade/internal/models"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

const maxUsernameLength = 50

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, span, done := instrument(ctx, "CreateUser")
	defer func() { done(err) }()

	if user == nil {
		return pkgerrors.ErrNilUser
	}
	if user.Username == "" {
		return pkgerrors.Invalid("username is required")
	}
	if utf8.RuneCountInString(user.Username) > maxUsernameLength {
		return pkgerrors.Invalid("username too long")
	}
	if user.PasswordHash == "" {
		return pkgerrors.Invalid("password_hash is required")
	}
	span.SetAttributes(attribute.String("username", user.Username))

	query := `
		INSERT INTO users (username, password_hash, avatar_url, coins, reports_count, is_removed)
		VALUES ($1, $2, $3, 0, 0, false)
		RETURNING id, coins, created_at
	`
	err = r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.AvatarURL).
		Scan(&user.ID, &user.Coins, &user.CreatedAt)
	if err != nil {
		if pqCode(err) == uniqueViolation {
			slog.Warn("username already exists", "method", "Create", "username", user.Username)
			return pkgerrors.ErrUsernameExists
		}
		slog.Error("failed to create user", "method", "Create", "username", user.Username, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "method", "Create", "user_id", user.ID, "username", user.Username)
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (_ *models.User, err error) {
	ctx, span, done := instrument(ctx, "GetUserByID")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("user_id", id))

	query := `
		SELECT id, username, password_hash, avatar_url, coins, reports_count, is_removed, created_at
		FROM users
		WHERE id = $1
	`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrUserNotFound
	}
	if err != nil {
		slog.Error("failed to get user by id", "method", "GetByID", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (_ *models.User, err error) {
	ctx, _, done := instrument(ctx, "GetUserByUsername")
	defer func() { done(err) }()

	if username == "" {
		return nil, pkgerrors.Invalid("username cannot be empty")
	}

	query := `
		SELECT id, username, password_hash, avatar_url, coins, reports_count, is_removed, created_at
		FROM users
		WHERE username = $1
	`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrUserNotFound
	case err != nil:
		slog.Error("failed to get user by username", "method", "GetByUsername", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) (_ []models.User, err error) {
	ctx, _, done := instrument(ctx, "ListUsers")
	defer func() { done(err) }()

	query := `
		SELECT id, username, password_hash, avatar_url, coins, reports_count, is_removed, created_at
		FROM users
		WHERE is_removed = false
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepository) GetCoins(ctx context.Context, id int64) (_ int64, err error) {
	ctx, _, done := instrument(ctx, "GetCoins")
	defer func() { done(err) }()

	var coins int64
	err = r.db.QueryRowContext(ctx, `SELECT coins FROM users WHERE id = $1 AND is_removed = false`, id).Scan(&coins)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, pkgerrors.ErrUserNotFound
	}
	if err != nil {
		slog.Error("failed to get coins", "method", "GetCoins", "user_id", id, "error", err)
		return 0, fmt.Errorf("failed to get coins: %w", err)
	}
	return coins, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.Coins,
		&user.ReportsCount,
		&user.IsRemoved,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
