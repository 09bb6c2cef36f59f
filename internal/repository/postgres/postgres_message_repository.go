package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/rotrade/internal/models"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type PostgresMessageRepository struct {
	db *sql.DB
}

func NewPostgresMessageRepository(db *sql.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, msg *models.Message) (err error) {
	ctx, span, done := instrument(ctx, "CreateMessage")
	defer func() { done(err) }()

	if msg == nil {
		return pkgerrors.ErrNilMessage
	}
	span.SetAttributes(
		attribute.Int64("from_user_id", msg.FromUserID),
		attribute.Int64("to_user_id", msg.ToUserID),
	)

	query := `
		INSERT INTO messages (from_user_id, to_user_id, content, reply_to_id, listing_id, is_read)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id, created_at
	`
	err = r.db.QueryRowContext(ctx, query, msg.FromUserID, msg.ToUserID, msg.Content, msg.ReplyToID, msg.ListingID).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return pkgerrors.Invalid("referenced user, message or listing does not exist")
		}
		slog.Error("failed to create message", "method", "Create", "from_user_id", msg.FromUserID, "to_user_id", msg.ToUserID, "error", err)
		return fmt.Errorf("failed to create message: %w", err)
	}
	msg.IsRead = false

	slog.Info("message created", "method", "Create", "message_id", msg.ID, "from_user_id", msg.FromUserID, "to_user_id", msg.ToUserID)
	return nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id int64) (_ *models.Message, err error) {
	ctx, _, done := instrument(ctx, "GetMessageByID")
	defer func() { done(err) }()

	query := `
		SELECT id, from_user_id, to_user_id, content, reply_to_id, listing_id, is_read, created_at
		FROM messages
		WHERE id = $1
	`
	var m models.Message
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.FromUserID, &m.ToUserID, &m.Content, &m.ReplyToID, &m.ListingID, &m.IsRead, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &m, nil
}

// Thread reads the conversation and marks it read in one transaction, so a
// message that arrives in between is never marked read without being returned.
func (r *PostgresMessageRepository) Thread(ctx context.Context, userID, peerID int64) (_ []models.Message, err error) {
	ctx, span, done := instrument(ctx, "GetThread")
	defer func() { done(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Int64("peer_id", peerID))

	selectQuery := `
		SELECT m.id, m.from_user_id, m.to_user_id, m.content, m.reply_to_id, m.listing_id,
		       m.is_read, m.created_at, u.username, u.avatar_url
		FROM messages m
		JOIN users u ON u.id = m.from_user_id
		WHERE (m.from_user_id = $1 AND m.to_user_id = $2)
		   OR (m.from_user_id = $2 AND m.to_user_id = $1)
		ORDER BY m.created_at ASC, m.id ASC
		FOR UPDATE OF m
	`
	markQuery := `
		UPDATE messages SET is_read = true
		WHERE to_user_id = $1 AND from_user_id = $2 AND is_read = false AND id <= $3
	`

	messages := make([]models.Message, 0)
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, selectQuery, userID, peerID)
		if err != nil {
			return fmt.Errorf("failed to get thread: %w", err)
		}
		defer rows.Close()

		var maxID int64
		for rows.Next() {
			var m models.Message
			if err := rows.Scan(
				&m.ID, &m.FromUserID, &m.ToUserID, &m.Content, &m.ReplyToID, &m.ListingID,
				&m.IsRead, &m.CreatedAt, &m.Username, &m.Avatar,
			); err != nil {
				return fmt.Errorf("failed to scan message: %w", err)
			}
			if m.ID > maxID {
				maxID = m.ID
			}
			messages = append(messages, m)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating thread: %w", err)
		}
		rows.Close()

		if maxID == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, markQuery, userID, peerID, maxID); err != nil {
			return fmt.Errorf("failed to mark thread read: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to fetch thread", "method", "Thread", "user_id", userID, "peer_id", peerID, "error", err)
		return nil, err
	}
	return messages, nil
}

// Conversations builds the inbox: the latest message per partner picked
// with DISTINCT ON, joined with a per-partner unread aggregate.
func (r *PostgresMessageRepository) Conversations(ctx context.Context, userID int64) (_ []models.Conversation, err error) {
	ctx, _, done := instrument(ctx, "ListConversations")
	defer func() { done(err) }()

	query := `
		WITH thread AS (
			SELECT CASE WHEN from_user_id = $1 THEN to_user_id ELSE from_user_id END AS other_user,
			       id, content, created_at, to_user_id, is_read
			FROM messages
			WHERE from_user_id = $1 OR to_user_id = $1
		),
		last_message AS (
			SELECT DISTINCT ON (other_user) other_user, content, created_at
			FROM thread
			ORDER BY other_user, created_at DESC, id DESC
		),
		unread AS (
			SELECT other_user, COUNT(*) FILTER (WHERE to_user_id = $1 AND is_read = false) AS unread_count
			FROM thread
			GROUP BY other_user
		)
		SELECT lm.other_user, u.username, u.avatar_url, lm.content, lm.created_at, un.unread_count
		FROM last_message lm
		JOIN unread un ON un.other_user = lm.other_user
		JOIN users u ON u.id = lm.other_user
		ORDER BY lm.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Error("failed to list conversations", "method", "Conversations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		if err = rows.Scan(&c.UserID, &c.Username, &c.AvatarURL, &c.LastMessage, &c.LastMessageTime, &c.UnreadCount); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}
	return conversations, nil
}

func (r *PostgresMessageRepository) UnreadCount(ctx context.Context, userID int64, fromUserID *int64) (_ int64, err error) {
	ctx, _, done := instrument(ctx, "UnreadCount")
	defer func() { done(err) }()

	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE to_user_id = $1 AND is_read = false AND ($2::bigint IS NULL OR from_user_id = $2)
	`
	var count int64
	if err = r.db.QueryRowContext(ctx, query, userID, fromUserID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

func (r *PostgresMessageRepository) Delete(ctx context.Context, id int64) (err error) {
	ctx, _, done := instrument(ctx, "DeleteMessage")
	defer func() { done(err) }()

	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to delete message", "method", "Delete", "message_id", id, "error", err)
		return fmt.Errorf("failed to delete message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrMessageNotFound
	}
	slog.Info("message deleted", "method", "Delete", "message_id", id)
	return nil
}
