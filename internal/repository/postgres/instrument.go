package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/honeynil/rotrade/internal/infrastructure/observability"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("postgres-repository")

// instrument opens a span and returns a finisher that records the call in
// the repository metrics. Domain misses (not found, conflicts) count as
// success: the query itself worked.
func instrument(ctx context.Context, method string) (context.Context, trace.Span, func(error)) {
	ctx, span := tracer.Start(ctx, method)
	start := time.Now()
	return ctx, span, func(err error) {
		status := "success"
		if err != nil && !isDomainError(err) {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues(method, status).Inc()
		observability.RepositoryDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		span.End()
	}
}

func isDomainError(err error) bool {
	return stderrors.Is(err, pkgerrors.ErrUserNotFound) ||
		stderrors.Is(err, pkgerrors.ErrListingNotFound) ||
		stderrors.Is(err, pkgerrors.ErrMessageNotFound) ||
		stderrors.Is(err, pkgerrors.ErrUsernameExists) ||
		stderrors.Is(err, pkgerrors.ErrInsufficientCoins)
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// withTx runs fn inside a transaction. The transaction is rolled back on
// any error or panic from fn and committed otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v; original error: %w", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
