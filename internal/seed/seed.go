package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

//go:embed demo.yaml
var demoFixture []byte

// Fixture - начальное состояние каталога и учётные записи для входа
type Fixture struct {
	Users        []User        `yaml:"users"`
	Accounts     []Account     `yaml:"accounts"`
	SwapRequests []SwapRequest `yaml:"swap_requests"`
	Feedback     []Feedback    `yaml:"feedback"`
	Messages     []Message     `yaml:"messages"`
}

// User - пользователь в файле начальных данных
type User struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	Email         string    `yaml:"email"`
	Location      string    `yaml:"location"`
	ProfilePhoto  string    `yaml:"profile_photo"`
	SkillsOffered []string  `yaml:"skills_offered"`
	SkillsWanted  []string  `yaml:"skills_wanted"`
	Availability  []string  `yaml:"availability"`
	IsPublic      bool      `yaml:"is_public"`
	IsBanned      bool      `yaml:"is_banned"`
	CreatedAt     time.Time `yaml:"created_at"`
}

// Account - демо-учётная запись; пароль хешируется при загрузке
type Account struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type SwapRequest struct {
	ID           string    `yaml:"id"`
	FromUserID   string    `yaml:"from_user_id"`
	ToUserID     string    `yaml:"to_user_id"`
	SkillOffered string    `yaml:"skill_offered"`
	SkillWanted  string    `yaml:"skill_wanted"`
	Message      string    `yaml:"message"`
	Status       string    `yaml:"status"`
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

type Feedback struct {
	ID            string    `yaml:"id"`
	SwapRequestID string    `yaml:"swap_request_id"`
	FromUserID    string    `yaml:"from_user_id"`
	ToUserID      string    `yaml:"to_user_id"`
	Rating        int       `yaml:"rating"`
	Comment       string    `yaml:"comment"`
	CreatedAt     time.Time `yaml:"created_at"`
}

type Message struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Content   string    `yaml:"content"`
	Type      string    `yaml:"type"`
	CreatedAt time.Time `yaml:"created_at"`
	IsActive  bool      `yaml:"is_active"`
}

// Load читает файл начальных данных; пустой путь означает встроенные демо-данные
func Load(path string) (*Fixture, error) {
	if path == "" {
		return Parse(demoFixture)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла начальных данных: %w", err)
	}
	return Parse(data)
}

// Parse разбирает YAML с начальными данными
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ошибка разбора начальных данных: %w", err)
	}
	return &f, nil
}

// Snapshot переводит начальные данные в снимок для ledger.Import
func (f *Fixture) Snapshot() ledger.Snapshot {
	var s ledger.Snapshot

	for _, u := range f.Users {
		s.Users = append(s.Users, models.User{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			Location:      u.Location,
			ProfilePhoto:  u.ProfilePhoto,
			SkillsOffered: nonNil(u.SkillsOffered),
			SkillsWanted:  nonNil(u.SkillsWanted),
			Availability:  nonNil(u.Availability),
			IsPublic:      u.IsPublic,
			IsActive:      !u.IsBanned,
			IsBanned:      u.IsBanned,
			CreatedAt:     u.CreatedAt,
		})
	}
	for _, r := range f.SwapRequests {
		s.SwapRequests = append(s.SwapRequests, models.SwapRequest{
			ID:           r.ID,
			FromUserID:   r.FromUserID,
			ToUserID:     r.ToUserID,
			SkillOffered: r.SkillOffered,
			SkillWanted:  r.SkillWanted,
			Message:      r.Message,
			Status:       models.SwapStatus(r.Status),
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	for _, fb := range f.Feedback {
		s.Feedback = append(s.Feedback, models.Feedback{
			ID:            fb.ID,
			SwapRequestID: fb.SwapRequestID,
			FromUserID:    fb.FromUserID,
			ToUserID:      fb.ToUserID,
			Rating:        fb.Rating,
			Comment:       fb.Comment,
			CreatedAt:     fb.CreatedAt,
		})
	}
	for _, m := range f.Messages {
		s.Messages = append(s.Messages, models.AdminMessage{
			ID:        m.ID,
			Title:     m.Title,
			Content:   m.Content,
			Type:      models.MessageType(m.Type),
			CreatedAt: m.CreatedAt,
			IsActive:  m.IsActive,
		})
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
