package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
)

// Collection - коллекция, доступная для выгрузки
type Collection string

const (
	Users    Collection = "users"
	Swaps    Collection = "swaps"
	Feedback Collection = "feedback"
)

var ErrUnknownCollection = errors.New("unknown report collection")

// ParseCollection проверяет имя коллекции
func ParseCollection(name string) (Collection, error) {
	switch c := Collection(name); c {
	case Users, Swaps, Feedback:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// UserRow - строка отчёта по пользователям
type UserRow struct {
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	SkillsOffered int       `json:"skillsOffered"`
	SkillsWanted  int       `json:"skillsWanted"`
	Rating        float64   `json:"rating"`
	IsActive      bool      `json:"isActive"`
	IsBanned      bool      `json:"isBanned"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SwapRow - строка отчёта по обменам
type SwapRow struct {
	From         string    `json:"from"`
	To           string    `json:"to"`
	SkillOffered string    `json:"skillOffered"`
	SkillWanted  string    `json:"skillWanted"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FeedbackRow - строка отчёта по отзывам
type FeedbackRow struct {
	SwapRequestID string    `json:"swapRequestId"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Report - готовый к скачиванию JSON-документ
type Report struct {
	FileName string
	Body     []byte
}

// FileName возвращает имя файла вида users-report-2024-01-31.json (дата в UTC)
func FileName(c Collection, at time.Time) string {
	return fmt.Sprintf("%s-report-%s.json", c, at.UTC().Format(time.DateOnly))
}

// Build строит проекцию коллекции из снимка каталога
func Build(c Collection, s ledger.Snapshot, at time.Time) (*Report, error) {
	var rows any
	switch c {
	case Users:
		out := make([]UserRow, 0, len(s.Users))
		for _, u := range s.Users {
			out = append(out, UserRow{
				Name:          u.Name,
				Email:         u.Email,
				SkillsOffered: len(u.SkillsOffered),
				SkillsWanted:  len(u.SkillsWanted),
				Rating:        u.Rating,
				IsActive:      u.IsActive,
				IsBanned:      u.IsBanned,
				CreatedAt:     u.CreatedAt,
			})
		}
		rows = out
	case Swaps:
		out := make([]SwapRow, 0, len(s.SwapRequests))
		for _, r := range s.SwapRequests {
			out = append(out, SwapRow{
				From:         r.FromUserName,
				To:           r.ToUserName,
				SkillOffered: r.SkillOffered,
				SkillWanted:  r.SkillWanted,
				Status:       string(r.Status),
				CreatedAt:    r.CreatedAt,
				UpdatedAt:    r.UpdatedAt,
			})
		}
		rows = out
	case Feedback:
		out := make([]FeedbackRow, 0, len(s.Feedback))
		for _, f := range s.Feedback {
			out = append(out, FeedbackRow{
				SwapRequestID: f.SwapRequestID,
				Rating:        f.Rating,
				Comment:       f.Comment,
				CreatedAt:     f.CreatedAt,
			})
		}
		rows = out
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	body, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации отчёта: %w", err)
	}
	return &Report{FileName: FileName(c, at), Body: body}, nil
}
