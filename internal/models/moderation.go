package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Report struct {
	ID               int64     `json:"id"`
	ReporterID       int64     `json:"reporter_id"`
	ReporterUsername string    `json:"reporter_username,omitempty"`
	ReportedUserID   int64     `json:"reported_user_id"`
	ReportedUsername string    `json:"reported_username,omitempty"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
}

type Review struct {
	ID           int64     `json:"id"`
	FromUserID   int64     `json:"from_user_id"`
	FromUsername string    `json:"from_username,omitempty"`
	ToUserID     int64     `json:"to_user_id"`
	Rating       int32     `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}
