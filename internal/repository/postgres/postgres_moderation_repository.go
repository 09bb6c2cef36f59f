package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/honeynil/rotrade/internal/models"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

type PostgresReportRepository struct {
	db *sql.DB
}

func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) Create(ctx context.Context, report *models.Report) (err error) {
	ctx, _, done := instrument(ctx, "CreateReport")
	defer func() { done(err) }()

	insertQuery := `
		INSERT INTO reports (reporter_id, reported_user_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	bumpQuery := `UPDATE users SET reports_count = reports_count + 1 WHERE id = $1`

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, insertQuery, report.ReporterID, report.ReportedUserID, report.Reason).
			Scan(&report.ID, &report.CreatedAt)
		if err != nil {
			if pqCode(err) == foreignKeyViolation {
				return pkgerrors.ErrUserNotFound
			}
			return fmt.Errorf("failed to create report: %w", err)
		}
		if _, err := tx.ExecContext(ctx, bumpQuery, report.ReportedUserID); err != nil {
			return fmt.Errorf("failed to update reports_count: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to create report", "method", "Create", "reporter_id", report.ReporterID, "reported_user_id", report.ReportedUserID, "error", err)
		return err
	}

	slog.Info("report created", "method", "Create", "report_id", report.ID, "reported_user_id", report.ReportedUserID)
	return nil
}

func (r *PostgresReportRepository) List(ctx context.Context) (_ []models.Report, err error) {
	ctx, _, done := instrument(ctx, "ListReports")
	defer func() { done(err) }()

	query := `
		SELECT r.id, r.reporter_id, u1.username, r.reported_user_id, u2.username, r.reason, r.created_at
		FROM reports r
		JOIN users u1 ON u1.id = r.reporter_id
		JOIN users u2 ON u2.id = r.reported_user_id
		ORDER BY r.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]models.Report, 0)
	for rows.Next() {
		var rp models.Report
		if err = rows.Scan(&rp.ID, &rp.ReporterID, &rp.ReporterUsername, &rp.ReportedUserID, &rp.ReportedUsername, &rp.Reason, &rp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

type PostgresReviewRepository struct {
	db *sql.DB
}

func NewPostgresReviewRepository(db *sql.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) Create(ctx context.Context, review *models.Review) (err error) {
	ctx, _, done := instrument(ctx, "CreateReview")
	defer func() { done(err) }()

	query := `
		INSERT INTO reviews (from_user_id, to_user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err = r.db.QueryRowContext(ctx, query, review.FromUserID, review.ToUserID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return pkgerrors.ErrUserNotFound
		}
		slog.Error("failed to create review", "method", "Create", "from_user_id", review.FromUserID, "to_user_id", review.ToUserID, "error", err)
		return fmt.Errorf("failed to create review: %w", err)
	}

	slog.Info("review created", "method", "Create", "review_id", review.ID, "to_user_id", review.ToUserID)
	return nil
}

func (r *PostgresReviewRepository) List(ctx context.Context, toUserID *int64) (_ []models.Review, err error) {
	ctx, _, done := instrument(ctx, "ListReviews")
	defer func() { done(err) }()

	query := `
		SELECT r.id, r.from_user_id, u.username, r.to_user_id, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.from_user_id
		WHERE ($1::bigint IS NULL OR r.to_user_id = $1)
		ORDER BY r.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, toUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var rv models.Review
		if err = rows.Scan(&rv.ID, &rv.FromUserID, &rv.FromUsername, &rv.ToUserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}
