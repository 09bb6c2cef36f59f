package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/honeynil/rotrade/internal/events"
	"github.com/honeynil/rotrade/internal/infrastructure/redis"
	"github.com/honeynil/rotrade/internal/models"
	"github.com/honeynil/rotrade/internal/repository"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=listing_service.go -destination=mocks/mock_listing_service.go -package=mocks

type ListingService interface {
	Create(ctx context.Context, in CreateListingInput) (*models.Listing, error)
	List(ctx context.Context, ownerID *int64) ([]models.Listing, error)
	Delete(ctx context.Context, listingID, userID int64) error
}

type CreateListingInput struct {
	UserID      int64
	Title       string
	Description string
	ImageURL    *string
	GameURL     *string
	GameName    *string
}

type listingService struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	cache       listingsCache
	publisher   events.Publisher
}

func NewListingService(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	cache redis.RedisClient,
	cacheTTL time.Duration,
	publisher events.Publisher,
) *listingService {
	return &listingService{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		cache:       listingsCache{client: cache, ttl: cacheTTL, now: time.Now},
		publisher:   publisher,
	}
}

func (s *listingService) Create(ctx context.Context, in CreateListingInput) (_ *models.Listing, err error) {
	ctx, span, done := startSpan(ctx, "CreateListing")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("user_id", in.UserID))

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if in.UserID <= 0 || title == "" || description == "" {
		return nil, pkgerrors.Invalid("User ID, title and description required")
	}

	owner, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to load owner", pkgerrors.ErrInternal)
	}
	if owner.IsRemoved {
		return nil, pkgerrors.ErrUserNotFound
	}

	listing := &models.Listing{
		UserID:      in.UserID,
		Username:    owner.Username,
		UserAvatar:  owner.AvatarURL,
		Title:       title,
		Description: description,
		ImageURL:    nonEmpty(in.ImageURL),
		GameURL:     nonEmpty(in.GameURL),
		GameName:    nonEmpty(in.GameName),
	}
	if err = s.listingRepo.Create(ctx, listing); err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, err
		}
		slog.Error("failed to create listing", "user_id", in.UserID, "error", err)
		return nil, fmt.Errorf("%w: failed to create listing", pkgerrors.ErrInternal)
	}

	s.cache.invalidate(ctx)
	publish(ctx, s.publisher, events.TopicListings, events.New(events.ListingCreated, listing.UserID, map[string]any{
		"listing_id": listing.ID,
		"title":      listing.Title,
	}))

	slog.Info("listing created", "listing_id", listing.ID, "user_id", listing.UserID)
	return listing, nil
}

// List returns active listings, featured first. The unfiltered feed is
// served from the cache when possible.
func (s *listingService) List(ctx context.Context, ownerID *int64) (_ []models.Listing, err error) {
	ctx, _, done := startSpan(ctx, "ListListings")
	defer func() { done(err) }()

	if ownerID == nil {
		if cached, ok := s.cache.get(ctx); ok {
			return cached, nil
		}
	}

	listings, err := s.listingRepo.ListActive(ctx, ownerID)
	if err != nil {
		slog.Error("failed to list listings", "error", err)
		return nil, fmt.Errorf("%w: failed to list listings", pkgerrors.ErrInternal)
	}
	if ownerID == nil {
		s.cache.set(ctx, listings)
	}
	return listings, nil
}

func (s *listingService) Delete(ctx context.Context, listingID, userID int64) (err error) {
	ctx, span, done := startSpan(ctx, "DeleteListing")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("listing_id", listingID), attribute.Int64("user_id", userID))

	if listingID <= 0 || userID <= 0 {
		return pkgerrors.Invalid("Listing ID and user ID required")
	}

	if err = ownsActiveListing(ctx, s.listingRepo, listingID, userID); err != nil {
		return err
	}
	if err = s.listingRepo.Deactivate(ctx, listingID, userID); err != nil {
		if stderrors.Is(err, pkgerrors.ErrListingNotFound) {
			return err
		}
		return fmt.Errorf("%w: failed to delete listing", pkgerrors.ErrInternal)
	}

	s.cache.invalidate(ctx)
	publish(ctx, s.publisher, events.TopicListings, events.New(events.ListingDeleted, userID, map[string]any{
		"listing_id": listingID,
	}))

	slog.Info("listing deleted", "listing_id", listingID, "user_id", userID)
	return nil
}

// ownsActiveListing tells a missing listing (404) apart from someone
// else's (403).
func ownsActiveListing(ctx context.Context, repo repository.ListingRepository, listingID, userID int64) error {
	listing, err := repo.GetByID(ctx, listingID)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrListingNotFound) {
			return err
		}
		return fmt.Errorf("%w: failed to load listing", pkgerrors.ErrInternal)
	}
	if !listing.IsActive {
		return pkgerrors.ErrListingNotFound
	}
	if listing.UserID != userID {
		slog.Warn("listing owned by another user", "listing_id", listingID, "owner_id", listing.UserID, "user_id", userID)
		return pkgerrors.ErrForbidden
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
