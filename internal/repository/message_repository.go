package repository

import (
	"context"

	"github.com/honeynil/rotrade/internal/models"
)

//go:generate mockgen -source=message_repository.go -destination=mocks/mock_message_repository.go -package=mocks

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	// Thread returns the conversation between userID and peerID in
	// chronological order and marks peer's messages to userID as read.
	Thread(ctx context.Context, userID, peerID int64) ([]models.Message, error)
	Conversations(ctx context.Context, userID int64) ([]models.Conversation, error)
	// UnreadCount counts unread messages addressed to userID, optionally
	// only those sent by fromUserID.
	UnreadCount(ctx context.Context, userID int64, fromUserID *int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
