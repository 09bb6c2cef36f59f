package repository

import (
	"context"

	"github.com/honeynil/rotrade/internal/models"
)

//go:generate mockgen -source=moderation_repository.go -destination=mocks/mock_moderation_repository.go -package=mocks

type ReportRepository interface {
	// Create stores the report and bumps the reported user's reports_count.
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context) ([]models.Report, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	List(ctx context.Context, toUserID *int64) ([]models.Review, error)
}
