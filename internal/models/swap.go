package models

import (
	"time"
)

// SwapStatus - статус запроса на обмен
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCompleted SwapStatus = "completed"
	SwapCancelled SwapStatus = "cancelled"
)

// Valid проверяет, что статус входит в известный набор
func (s SwapStatus) Valid() bool {
	switch s {
	case SwapPending, SwapAccepted, SwapRejected, SwapCompleted, SwapCancelled:
		return true
	}
	return false
}

// Terminal сообщает, что из статуса больше нет переходов
func (s SwapStatus) Terminal() bool {
	return s == SwapRejected || s == SwapCompleted || s == SwapCancelled
}

// SwapRequest представляет предложение обмена навыками между двумя пользователями
type SwapRequest struct {
	ID           string     `json:"id"`
	FromUserID   string     `json:"from_user_id"`
	ToUserID     string     `json:"to_user_id"`
	FromUserName string     `json:"from_user_name"`
	ToUserName   string     `json:"to_user_name"`
	SkillOffered string     `json:"skill_offered"`
	SkillWanted  string     `json:"skill_wanted"`
	Message      string     `json:"message"`
	Status       SwapStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Involves сообщает, участвует ли пользователь в обмене
func (r SwapRequest) Involves(userID string) bool {
	return r.FromUserID == userID || r.ToUserID == userID
}

// Counterpart возвращает ID второго участника обмена
func (r SwapRequest) Counterpart(userID string) string {
	if r.FromUserID == userID {
		return r.ToUserID
	}
	return r.FromUserID
}
