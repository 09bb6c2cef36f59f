package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/rotrade/internal/models"
	"github.com/honeynil/rotrade/internal/repository/mocks"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModerationFixture(t *testing.T) (*moderationService, *mocks.MockUserRepository, *mocks.MockReportRepository, *mocks.MockReviewRepository) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	reports := mocks.NewMockReportRepository(ctrl)
	reviews := mocks.NewMockReviewRepository(ctrl)
	return NewModerationService(users, reports, reviews), users, reports, reviews
}

func TestModerationService_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, _, reports, _ := newModerationFixture(t)
		reports.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.Report) error {
			assert.Equal(t, "scam", r.Reason)
			r.ID = 3
			return nil
		})

		report, err := svc.Report(ctx, 1, 2, " scam ")
		require.NoError(t, err)
		assert.Equal(t, int64(3), report.ID)
	})

	t.Run("Self", func(t *testing.T) {
		svc, _, _, _ := newModerationFixture(t)

		_, err := svc.Report(ctx, 1, 1, "scam")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("MissingReason", func(t *testing.T) {
		svc, _, _, _ := newModerationFixture(t)

		_, err := svc.Report(ctx, 1, 2, "  ")
		assert.EqualError(t, err, "Reporter, reported user and reason required")
	})

	t.Run("UnknownUser", func(t *testing.T) {
		svc, _, reports, _ := newModerationFixture(t)
		reports.EXPECT().Create(gomock.Any(), gomock.Any()).Return(pkgerrors.ErrUserNotFound)

		_, err := svc.Report(ctx, 1, 99, "scam")
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
	})
}

func TestModerationService_Review(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, _, _, reviews := newModerationFixture(t)
		reviews.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *models.Review) error {
			assert.Equal(t, int32(5), r.Rating)
			assert.Equal(t, "fast trade", r.Comment)
			r.ID = 8
			return nil
		})

		review, err := svc.Review(ctx, ReviewInput{FromUserID: 1, ToUserID: 2, Rating: 5, Comment: "fast trade "})
		require.NoError(t, err)
		assert.Equal(t, int64(8), review.ID)
	})

	t.Run("RatingOutOfRange", func(t *testing.T) {
		for _, rating := range []int32{0, 6, -1} {
			svc, _, _, _ := newModerationFixture(t)

			_, err := svc.Review(ctx, ReviewInput{FromUserID: 1, ToUserID: 2, Rating: rating})
			assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput, "rating %d", rating)
			assert.EqualError(t, err, "Rating must be between 1 and 5")
		}
	})

	t.Run("Self", func(t *testing.T) {
		svc, _, _, _ := newModerationFixture(t)

		_, err := svc.Review(ctx, ReviewInput{FromUserID: 2, ToUserID: 2, Rating: 4})
		assert.EqualError(t, err, "Cannot review yourself")
	})

	t.Run("ListFiltered", func(t *testing.T) {
		svc, _, _, reviews := newModerationFixture(t)
		reviews.EXPECT().List(gomock.Any(), int64Ptr(2)).Return([]models.Review{{ID: 1, ToUserID: 2}}, nil)

		got, err := svc.Reviews(ctx, int64Ptr(2))
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestModerationService_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("Users", func(t *testing.T) {
		svc, users, _, _ := newModerationFixture(t)
		users.EXPECT().List(gomock.Any()).Return([]models.User{{ID: 1, Username: "alice"}}, nil)

		got, err := svc.Users(ctx)
		require.NoError(t, err)
		assert.Equal(t, "alice", got[0].Username)
	})

	t.Run("ReportsFailure", func(t *testing.T) {
		svc, _, reports, _ := newModerationFixture(t)
		reports.EXPECT().List(gomock.Any()).Return(nil, fmt.Errorf("boom"))

		_, err := svc.Reports(ctx)
		assert.ErrorIs(t, err, pkgerrors.ErrInternal)
	})
}
