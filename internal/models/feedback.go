package models

import (
	"time"
)

// Границы оценки
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback представляет отзыв одного участника обмена о другом
type Feedback struct {
	ID            string    `json:"id"`
	SwapRequestID string    `json:"swap_request_id"`
	FromUserID    string    `json:"from_user_id"`
	ToUserID      string    `json:"to_user_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}
