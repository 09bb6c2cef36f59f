package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/honeynil/rotrade/internal/events"
	"github.com/honeynil/rotrade/internal/models"
	"github.com/honeynil/rotrade/internal/repository"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=message_service.go -destination=mocks/mock_message_service.go -package=mocks

type MessageService interface {
	Send(ctx context.Context, in SendMessageInput) (*models.Message, error)
	Thread(ctx context.Context, userID, peerID int64) ([]models.Message, error)
	Conversations(ctx context.Context, userID int64) ([]models.Conversation, error)
	UnreadCount(ctx context.Context, userID int64, fromUserID *int64) (int64, error)
	Delete(ctx context.Context, messageID, userID int64) error
}

type BlockService interface {
	Block(ctx context.Context, userID, blockedUserID int64) error
	Unblock(ctx context.Context, userID, blockedUserID int64) error
	Blocked(ctx context.Context, userID int64) ([]int64, error)
}

type SendMessageInput struct {
	FromUserID int64
	ToUserID   int64
	Content    string
	ReplyToID  *int64
	ListingID  *int64
}

type messageService struct {
	messageRepo repository.MessageRepository
	blockRepo   repository.BlockRepository
	publisher   events.Publisher
}

func NewMessageService(messageRepo repository.MessageRepository, blockRepo repository.BlockRepository, publisher events.Publisher) *messageService {
	return &messageService{
		messageRepo: messageRepo,
		blockRepo:   blockRepo,
		publisher:   publisher,
	}
}

func (s *messageService) Send(ctx context.Context, in SendMessageInput) (_ *models.Message, err error) {
	ctx, span, done := startSpan(ctx, "SendMessage")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("from_user_id", in.FromUserID), attribute.Int64("to_user_id", in.ToUserID))

	content := strings.TrimSpace(in.Content)
	if in.FromUserID <= 0 || in.ToUserID <= 0 || content == "" {
		return nil, pkgerrors.Invalid("From, to user IDs and content required")
	}
	if in.FromUserID == in.ToUserID {
		return nil, pkgerrors.Invalid("Cannot send a message to yourself")
	}
	if utf8.RuneCountInString(content) > models.MaxMessageLength {
		return nil, pkgerrors.Invalid("Message too long (max %d characters)", models.MaxMessageLength)
	}

	blocked, err := s.blockRepo.IsBlocked(ctx, in.ToUserID, in.FromUserID)
	if err != nil {
		slog.Error("failed to check block", "from_user_id", in.FromUserID, "to_user_id", in.ToUserID, "error", err)
		return nil, fmt.Errorf("%w: failed to check block", pkgerrors.ErrInternal)
	}
	if blocked {
		slog.Warn("message to a user who blocked the sender", "from_user_id", in.FromUserID, "to_user_id", in.ToUserID)
		return nil, pkgerrors.ErrBlocked
	}

	if in.ReplyToID != nil {
		if err = s.checkReply(ctx, *in.ReplyToID, in.FromUserID, in.ToUserID); err != nil {
			return nil, err
		}
	}

	msg := &models.Message{
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		Content:    content,
		ReplyToID:  in.ReplyToID,
		ListingID:  in.ListingID,
	}
	if err = s.messageRepo.Create(ctx, msg); err != nil {
		if stderrors.Is(err, pkgerrors.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to send message", pkgerrors.ErrInternal)
	}

	publish(ctx, s.publisher, events.TopicMessages, events.New(events.MessageSent, msg.FromUserID, map[string]any{
		"message_id": msg.ID,
		"to_user_id": msg.ToUserID,
	}))
	return msg, nil
}

// checkReply accepts only replies to a message of the same conversation.
func (s *messageService) checkReply(ctx context.Context, replyToID, fromUserID, toUserID int64) error {
	parent, err := s.messageRepo.GetByID(ctx, replyToID)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrMessageNotFound) {
			return pkgerrors.Invalid("Reply target does not exist")
		}
		return fmt.Errorf("%w: failed to load reply target", pkgerrors.ErrInternal)
	}
	samePair := (parent.FromUserID == fromUserID && parent.ToUserID == toUserID) ||
		(parent.FromUserID == toUserID && parent.ToUserID == fromUserID)
	if !samePair {
		return pkgerrors.Invalid("Reply target belongs to another conversation")
	}
	return nil
}

// Thread returns the conversation oldest first and marks the peer's
// messages as read.
func (s *messageService) Thread(ctx context.Context, userID, peerID int64) (_ []models.Message, err error) {
	ctx, _, done := startSpan(ctx, "GetThread")
	defer func() { done(err) }()

	if userID <= 0 || peerID <= 0 {
		return nil, pkgerrors.Invalid("User ID required")
	}
	messages, err := s.messageRepo.Thread(ctx, userID, peerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load thread", pkgerrors.ErrInternal)
	}
	return messages, nil
}

func (s *messageService) Conversations(ctx context.Context, userID int64) (_ []models.Conversation, err error) {
	ctx, _, done := startSpan(ctx, "ListConversations")
	defer func() { done(err) }()

	if userID <= 0 {
		return nil, pkgerrors.Invalid("User ID required")
	}
	conversations, err := s.messageRepo.Conversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list conversations", pkgerrors.ErrInternal)
	}
	return conversations, nil
}

func (s *messageService) UnreadCount(ctx context.Context, userID int64, fromUserID *int64) (_ int64, err error) {
	ctx, _, done := startSpan(ctx, "UnreadCount")
	defer func() { done(err) }()

	if userID <= 0 {
		return 0, pkgerrors.Invalid("User ID required")
	}
	count, err := s.messageRepo.UnreadCount(ctx, userID, fromUserID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count unread messages", pkgerrors.ErrInternal)
	}
	return count, nil
}

// Delete removes a message. Only its sender may do that.
func (s *messageService) Delete(ctx context.Context, messageID, userID int64) (err error) {
	ctx, _, done := startSpan(ctx, "DeleteMessage")
	defer func() { done(err) }()

	if messageID <= 0 || userID <= 0 {
		return pkgerrors.Invalid("Message ID and user ID required")
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("%w: failed to load message", pkgerrors.ErrInternal)
	}
	if msg.FromUserID != userID {
		slog.Warn("delete of a message sent by someone else", "message_id", messageID, "user_id", userID)
		return pkgerrors.ErrForbidden
	}
	if err = s.messageRepo.Delete(ctx, messageID); err != nil {
		if stderrors.Is(err, pkgerrors.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("%w: failed to delete message", pkgerrors.ErrInternal)
	}

	slog.Info("message deleted", "message_id", messageID, "user_id", userID)
	return nil
}

type blockService struct {
	blockRepo repository.BlockRepository
}

func NewBlockService(blockRepo repository.BlockRepository) *blockService {
	return &blockService{blockRepo: blockRepo}
}

func (s *blockService) Block(ctx context.Context, userID, blockedUserID int64) (err error) {
	ctx, _, done := startSpan(ctx, "BlockUser")
	defer func() { done(err) }()

	if userID <= 0 || blockedUserID <= 0 {
		return pkgerrors.Invalid("User IDs required")
	}
	if userID == blockedUserID {
		return pkgerrors.Invalid("Cannot block yourself")
	}
	if err = s.blockRepo.Block(ctx, userID, blockedUserID); err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%w: failed to block user", pkgerrors.ErrInternal)
	}
	return nil
}

// Unblock succeeds even when no block existed.
func (s *blockService) Unblock(ctx context.Context, userID, blockedUserID int64) (err error) {
	ctx, _, done := startSpan(ctx, "UnblockUser")
	defer func() { done(err) }()

	if userID <= 0 || blockedUserID <= 0 {
		return pkgerrors.Invalid("User IDs required")
	}
	if err = s.blockRepo.Unblock(ctx, userID, blockedUserID); err != nil {
		return fmt.Errorf("%w: failed to unblock user", pkgerrors.ErrInternal)
	}
	return nil
}

func (s *blockService) Blocked(ctx context.Context, userID int64) (_ []int64, err error) {
	ctx, _, done := startSpan(ctx, "ListBlocked")
	defer func() { done(err) }()

	if userID <= 0 {
		return nil, pkgerrors.Invalid("User ID required")
	}
	ids, err := s.blockRepo.ListBlocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list blocked users", pkgerrors.ErrInternal)
	}
	return ids, nil
}
