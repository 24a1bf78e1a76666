package models

import (
	"time"
)

// MessageType - тип объявления платформы
type MessageType string

const (
	MessageInfo        MessageType = "info"
	MessageWarning     MessageType = "warning"
	MessageMaintenance MessageType = "maintenance"
)

// Valid проверяет тип объявления
func (t MessageType) Valid() bool {
	return t == MessageInfo || t == MessageWarning || t == MessageMaintenance
}

// AdminMessage представляет объявление для всех пользователей платформы
type AdminMessage struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	IsActive  bool        `json:"is_active"`
}

// SkillReport содержит агрегированную статистику по одному навыку
type SkillReport struct {
	SkillName    string `json:"skill_name"`
	OfferedCount int    `json:"offered_count"`
	WantedCount  int    `json:"wanted_count"`
	SwapCount    int    `json:"swap_count"`
}

// PlatformStats содержит сводку для панели администратора
type PlatformStats struct {
	TotalUsers     int     `json:"total_users"`
	ActiveUsers    int     `json:"active_users"`
	BannedUsers    int     `json:"banned_users"`
	TotalSwaps     int     `json:"total_swaps"`
	PendingSwaps   int     `json:"pending_swaps"`
	CompletedSwaps int     `json:"completed_swaps"`
	TotalFeedback  int     `json:"total_feedback"`
	AverageRating  float64 `json:"average_rating"`
}
