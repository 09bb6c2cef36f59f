package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar_url"`
	Coins        int64     `json:"coins"`
	ReportsCount int32     `json:"reports_count"`
	IsRemoved    bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is what register and login hand back to the client.
type Session struct {
	User
	Token string `json:"token"`
}

type BlockedUser struct {
	UserID        int64     `json:"user_id"`
	BlockedUserID int64     `json:"blocked_user_id"`
	CreatedAt     time.Time `json:"created_at"`
}
