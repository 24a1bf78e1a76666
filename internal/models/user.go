package models

import (
	"slices"
	"time"
)

// Доступные теги расписания в профиле
const (
	AvailabilityWeekdays = "Weekdays"
	AvailabilityWeekends = "Weekends"
	AvailabilityEvenings = "Evenings"
	AvailabilityMornings = "Mornings"
	AvailabilityFlexible = "Flexible"
)

// AvailabilityOptions перечисляет допустимые значения availability
var AvailabilityOptions = []string{
	AvailabilityWeekdays,
	AvailabilityWeekends,
	AvailabilityEvenings,
	AvailabilityMornings,
	AvailabilityFlexible,
}

// User представляет участника каталога навыков
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Location      string    `json:"location,omitempty"`
	ProfilePhoto  string    `json:"profile_photo,omitempty"`
	SkillsOffered []string  `json:"skills_offered"`
	SkillsWanted  []string  `json:"skills_wanted"`
	Availability  []string  `json:"availability"`
	IsPublic      bool      `json:"is_public"`
	Rating        float64   `json:"rating"`
	TotalRatings  int       `json:"total_ratings"`
	CreatedAt     time.Time `json:"created_at"`
	IsActive      bool      `json:"is_active"`
	IsBanned      bool      `json:"is_banned"`
	TelegramID    int64     `json:"telegram_id,omitempty"`
}

// Clone возвращает копию пользователя, не разделяющую слайсы с оригиналом
func (u User) Clone() User {
	u.SkillsOffered = slices.Clone(u.SkillsOffered)
	u.SkillsWanted = slices.Clone(u.SkillsWanted)
	u.Availability = slices.Clone(u.Availability)
	return u
}

// ProfileUpdate содержит изменяемые пользователем поля профиля
type ProfileUpdate struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Location      string   `json:"location" validate:"max=200"`
	ProfilePhoto  string   `json:"profile_photo" validate:"omitempty,url"`
	SkillsOffered []string `json:"skills_offered" validate:"max=50,dive,max=100"`
	SkillsWanted  []string `json:"skills_wanted" validate:"max=50,dive,max=100"`
	Availability  []string `json:"availability"`
	IsPublic      bool     `json:"is_public"`
}
