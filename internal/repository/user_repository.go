package repository

import (
	"context"

	"github.com/honeynil/rotrade/internal/models"
)

//go:generate mockgen -source=user_repository.go -destination=mocks/mock_user_repository.go -package=mocks

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	GetCoins(ctx context.Context, id int64) (int64, error)
}

type BlockRepository interface {
	Block(ctx context.Context, userID, blockedUserID int64) error
	Unblock(ctx context.Context, userID, blockedUserID int64) error
	IsBlocked(ctx context.Context, userID, blockedUserID int64) (bool, error)
	ListBlocked(ctx context.Context, userID int64) ([]int64, error)
}
