package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/rotrade/internal/models"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type PostgresListingRepository struct {
	db *sql.DB
}

func NewPostgresListingRepository(db *sql.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

func (r *PostgresListingRepository) Create(ctx context.Context, listing *models.Listing) (err error) {
	ctx, span, done := instrument(ctx, "CreateListing")
	defer func() { done(err) }()

	if listing == nil {
		return pkgerrors.ErrNilListing
	}
	span.SetAttributes(attribute.Int64("user_id", listing.UserID))

	query := `
		INSERT INTO listings (user_id, title, description, image_url, game_url, game_name, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, true, false)
		RETURNING id, created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		listing.UserID,
		listing.Title,
		listing.Description,
		listing.ImageURL,
		listing.GameURL,
		listing.GameName,
	).Scan(&listing.ID, &listing.CreatedAt)
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return pkgerrors.ErrUserNotFound
		}
		slog.Error("failed to create listing", "method", "Create", "user_id", listing.UserID, "error", err)
		return fmt.Errorf("failed to create listing: %w", err)
	}
	listing.IsActive = true

	slog.Info("listing created", "method", "Create", "listing_id", listing.ID, "user_id", listing.UserID)
	return nil
}

func (r *PostgresListingRepository) GetByID(ctx context.Context, id int64) (_ *models.Listing, err error) {
	ctx, span, done := instrument(ctx, "GetListingByID")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("listing_id", id))

	query := `
		SELECT l.id, l.user_id, u.username, u.avatar_url, l.title, l.description,
		       l.image_url, l.game_url, l.game_name, l.is_active, l.is_featured, l.featured_until, l.created_at
		FROM listings l
		JOIN users u ON u.id = l.user_id
		WHERE l.id = $1
	`
	var l models.Listing
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.UserID, &l.Username, &l.UserAvatar, &l.Title, &l.Description,
		&l.ImageURL, &l.GameURL, &l.GameName, &l.IsActive, &l.IsFeatured, &l.FeaturedUntil, &l.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrListingNotFound
	}
	if err != nil {
		slog.Error("failed to get listing", "method", "GetByID", "listing_id", id, "error", err)
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &l, nil
}

func (r *PostgresListingRepository) ListActive(ctx context.Context, ownerID *int64) (_ []models.Listing, err error) {
	ctx, _, done := instrument(ctx, "ListActiveListings")
	defer func() { done(err) }()

	query := `
		SELECT l.id, l.user_id, u.username, u.avatar_url, l.title, l.description,
		       l.image_url, l.game_url, l.game_name,
		       (l.is_featured AND COALESCE(l.featured_until > NOW(), false)) AS featured,
		       l.featured_until, l.created_at
		FROM listings l
		JOIN users u ON u.id = l.user_id
		WHERE l.is_active = true
		  AND u.is_removed = false
		  AND ($1::bigint IS NULL OR l.user_id = $1)
		ORDER BY featured DESC, l.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		slog.Error("failed to list listings", "method", "ListActive", "error", err)
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	listings := make([]models.Listing, 0)
	for rows.Next() {
		l := models.Listing{IsActive: true}
		err = rows.Scan(
			&l.ID, &l.UserID, &l.Username, &l.UserAvatar, &l.Title, &l.Description,
			&l.ImageURL, &l.GameURL, &l.GameName, &l.IsFeatured, &l.FeaturedUntil, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return listings, nil
}

// Deactivate soft-deletes an active listing owned by userID. The row is kept.
func (r *PostgresListingRepository) Deactivate(ctx context.Context, id, userID int64) (err error) {
	ctx, _, done := instrument(ctx, "DeactivateListing")
	defer func() { done(err) }()

	query := `UPDATE listings SET is_active = false WHERE id = $1 AND user_id = $2 AND is_active = true`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		slog.Error("failed to deactivate listing", "method", "Deactivate", "listing_id", id, "error", err)
		return fmt.Errorf("failed to deactivate listing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrListingNotFound
	}

	slog.Info("listing deactivated", "method", "Deactivate", "listing_id", id, "user_id", userID)
	return nil
}
