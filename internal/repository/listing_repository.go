package repository

import (
	"context"

	"github.com/honeynil/rotrade/internal/models"
)

//go:generate mockgen -source=listing_repository.go -destination=mocks/mock_listing_repository.go -package=mocks

type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	// ListActive returns active listings of non-removed owners, featured first.
	// A nil ownerID lists every owner.
	ListActive(ctx context.Context, ownerID *int64) ([]models.Listing, error)
	Deactivate(ctx context.Context, id, userID int64) error
}
