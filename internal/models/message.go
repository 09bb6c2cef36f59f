package models

import "time"

// MaxMessageLength is counted in runes.
const MaxMessageLength = 5000

type Message struct {
	ID         int64     `json:"id"`
	FromUserID int64     `json:"from_user_id"`
	ToUserID   int64     `json:"to_user_id"`
	Content    string    `json:"content"`
	ReplyToID  *int64    `json:"reply_to_id"`
	ListingID  *int64    `json:"listing_id"`
	IsRead     bool      `json:"is_read"`
	Username   string    `json:"username,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation is one row of the inbox: the peer, the latest message
// exchanged with them and how many of their messages are still unread.
type Conversation struct {
	UserID          int64     `json:"user_id"`
	Username        string    `json:"username"`
	AvatarURL       string    `json:"avatar_url"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int64     `json:"unread_count"`
}
