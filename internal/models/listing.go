package models

import "time"

type Listing struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Username      string     `json:"username"`
	UserAvatar    string     `json:"user_avatar,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ImageURL      *string    `json:"image_url"`
	GameURL       *string    `json:"game_url"`
	GameName      *string    `json:"game_name"`
	IsActive      bool       `json:"-"`
	IsFeatured    bool       `json:"is_featured"`
	FeaturedUntil *time.Time `json:"featured_until"`
	CreatedAt     time.Time  `json:"created_at"`
}

// FeaturedAt reports whether the listing is boosted at the given moment.
// The stored flag alone is not enough: the boost expires with featured_until.
func (l *Listing) FeaturedAt(now time.Time) bool {
	return l.IsFeatured && l.FeaturedUntil != nil && l.FeaturedUntil.After(now)
}
