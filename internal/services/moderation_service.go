package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/honeynil/rotrade/internal/models"
	"github.com/honeynil/rotrade/internal/repository"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

//go:generate mockgen -source=moderation_service.go -destination=mocks/mock_moderation_service.go -package=mocks

type ModerationService interface {
	Users(ctx context.Context) ([]models.User, error)
	Report(ctx context.Context, reporterID, reportedUserID int64, reason string) (*models.Report, error)
	Reports(ctx context.Context) ([]models.Report, error)
	Review(ctx context.Context, in ReviewInput) (*models.Review, error)
	Reviews(ctx context.Context, toUserID *int64) ([]models.Review, error)
}

type ReviewInput struct {
	FromUserID int64
	ToUserID   int64
	Rating     int32
	Comment    string
}

type moderationService struct {
	userRepo   repository.UserRepository
	reportRepo repository.ReportRepository
	reviewRepo repository.ReviewRepository
}

func NewModerationService(
	userRepo repository.UserRepository,
	reportRepo repository.ReportRepository,
	reviewRepo repository.ReviewRepository,
) *moderationService {
	return &moderationService{
		userRepo:   userRepo,
		reportRepo: reportRepo,
		reviewRepo: reviewRepo,
	}
}

func (s *moderationService) Users(ctx context.Context) (_ []models.User, err error) {
	ctx, _, done := startSpan(ctx, "ListUsers")
	defer func() { done(err) }()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users", pkgerrors.ErrInternal)
	}
	return users, nil
}

func (s *moderationService) Report(ctx context.Context, reporterID, reportedUserID int64, reason string) (_ *models.Report, err error) {
	ctx, _, done := startSpan(ctx, "CreateReport")
	defer func() { done(err) }()

	reason = strings.TrimSpace(reason)
	if reporterID <= 0 || reportedUserID <= 0 || reason == "" {
		return nil, pkgerrors.Invalid("Reporter, reported user and reason required")
	}
	if reporterID == reportedUserID {
		return nil, pkgerrors.Invalid("Cannot report yourself")
	}

	report := &models.Report{
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		Reason:         reason,
	}
	if err = s.reportRepo.Create(ctx, report); err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to create report", pkgerrors.ErrInternal)
	}

	slog.Info("user reported", "report_id", report.ID, "reporter_id", reporterID, "reported_user_id", reportedUserID)
	return report, nil
}

func (s *moderationService) Reports(ctx context.Context) (_ []models.Report, err error) {
	ctx, _, done := startSpan(ctx, "ListReports")
	defer func() { done(err) }()

	reports, err := s.reportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list reports", pkgerrors.ErrInternal)
	}
	return reports, nil
}

func (s *moderationService) Review(ctx context.Context, in ReviewInput) (_ *models.Review, err error) {
	ctx, _, done := startSpan(ctx, "CreateReview")
	defer func() { done(err) }()

	if in.FromUserID <= 0 || in.ToUserID <= 0 {
		return nil, pkgerrors.Invalid("From and to user IDs required")
	}
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, pkgerrors.Invalid("Rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if in.FromUserID == in.ToUserID {
		return nil, pkgerrors.Invalid("Cannot review yourself")
	}

	review := &models.Review{
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}
	if err = s.reviewRepo.Create(ctx, review); err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to create review", pkgerrors.ErrInternal)
	}
	return review, nil
}

func (s *moderationService) Reviews(ctx context.Context, toUserID *int64) (_ []models.Review, err error) {
	ctx, _, done := startSpan(ctx, "ListReviews")
	defer func() { done(err) }()

	reviews, err := s.reviewRepo.List(ctx, toUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list reviews", pkgerrors.ErrInternal)
	}
	return reviews, nil
}
