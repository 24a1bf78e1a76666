package ledger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// NewUser содержит данные для регистрации
type NewUser struct {
	Name       string
	Email      string
	TelegramID int64
}

// RegisterUser добавляет нового публичного активного пользователя без навыков
func (l *Ledger) RegisterUser(nu NewUser) (models.User, error) {
	name := strings.TrimSpace(nu.Name)
	email := strings.TrimSpace(nu.Email)
	if name == "" || (email == "" && nu.TelegramID == 0) {
		return models.User{}, ErrInvalidInput
	}

	l.mu.Lock()
	if email != "" && l.findByEmailLocked(email) != nil {
		l.mu.Unlock()
		return models.User{}, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}

	u := &models.User{
		ID:            l.newID(),
		Name:          name,
		Email:         email,
		SkillsOffered: []string{},
		SkillsWanted:  []string{},
		Availability:  []string{},
		IsPublic:      true,
		CreatedAt:     l.now(),
		IsActive:      true,
		TelegramID:    nu.TelegramID,
	}
	l.users = append(l.users, u)
	l.userByID[u.ID] = u
	l.skillsDirty = true
	out := u.Clone()
	seq := l.reserveDispatch()

	l.log.Info("Зарегистрирован пользователь", zap.String("user_id", out.ID))
	l.publish(seq, Event{Type: EventUserRegistered, Recipients: []string{out.ID}, Payload: out, At: out.CreatedAt})
	return out, nil
}

// DiscardUser отменяет регистрацию: удаляет пользователя, у которого ещё нет
// запросов на обмен и отзывов. События не публикуются.
func (l *Ledger) DiscardUser(userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.userByID[userID]
	if !ok {
		return ErrUserNotFound
	}
	for _, r := range l.swaps {
		if r.Involves(userID) {
			return ErrUserInUse
		}
	}
	for _, f := range l.feedback {
		if f.FromUserID == userID || f.ToUserID == userID {
			return ErrUserInUse
		}
	}

	for i, cur := range l.users {
		if cur == u {
			l.users = append(l.users[:i], l.users[i+1:]...)
			break
		}
	}
	delete(l.userByID, userID)
	delete(l.ratingSums, userID)
	l.skillsDirty = true
	return nil
}

// UpdateProfile заменяет редактируемые поля профиля.
// Рейтинг и флаги модерации через этот метод не меняются.
func (l *Ledger) UpdateProfile(userID string, upd models.ProfileUpdate) (models.User, error) {
	name := strings.TrimSpace(upd.Name)
	if name == "" {
		return models.User{}, ErrInvalidInput
	}
	availability, err := normalizeAvailability(upd.Availability)
	if err != nil {
		return models.User{}, err
	}

	l.mu.Lock()
	u, ok := l.userByID[userID]
	if !ok {
		l.mu.Unlock()
		return models.User{}, ErrUserNotFound
	}
	u.Name = name
	u.Location = strings.TrimSpace(upd.Location)
	u.ProfilePhoto = strings.TrimSpace(upd.ProfilePhoto)
	u.SkillsOffered = normalizeSkills(upd.SkillsOffered)
	u.SkillsWanted = normalizeSkills(upd.SkillsWanted)
	u.Availability = availability
	u.IsPublic = upd.IsPublic
	l.skillsDirty = true
	out := u.Clone()
	at := l.now()
	seq := l.reserveDispatch()

	l.publish(seq, Event{Type: EventProfileUpdated, Recipients: []string{userID}, Payload: out, At: at})
	return out, nil
}

// SetProfilePhoto обновляет только фото профиля
func (l *Ledger) SetProfilePhoto(userID, url string) (models.User, error) {
	l.mu.Lock()
	u, ok := l.userByID[userID]
	if !ok {
		l.mu.Unlock()
		return models.User{}, ErrUserNotFound
	}
	u.ProfilePhoto = strings.TrimSpace(url)
	out := u.Clone()
	at := l.now()
	seq := l.reserveDispatch()

	l.publish(seq, Event{Type: EventProfileUpdated, Recipients: []string{userID}, Payload: out, At: at})
	return out, nil
}

// GetUser возвращает пользователя по ID
func (l *Ledger) GetUser(id string) (models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	u, ok := l.userByID[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindUserByEmail ищет пользователя по email без учёта регистра
func (l *Ledger) FindUserByEmail(email string) (models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	u := l.findByEmailLocked(email)
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindUserByTelegramID ищет пользователя, привязанного к аккаунту Telegram
func (l *Ledger) FindUserByTelegramID(telegramID int64) (models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, u := range l.users {
		if telegramID != 0 && u.TelegramID == telegramID {
			return u.Clone(), nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// ListUsers возвращает всех пользователей в порядке регистрации
func (l *Ledger) ListUsers() []models.User {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.User, 0, len(l.users))
	for _, u := range l.users {
		out = append(out, u.Clone())
	}
	return out
}

// Browse возвращает публичный каталог для пользователя viewerID:
// без самого пользователя, без скрытых, неактивных и заблокированных.
// Непустой search ищется как подстрока в навыках, имени и городе.
func (l *Ledger) Browse(viewerID, search string) []models.User {
	term := strings.ToLower(strings.TrimSpace(search))

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.User{}
	for _, u := range l.users {
		if u.ID == viewerID || !u.IsPublic || !u.IsActive || u.IsBanned {
			continue
		}
		if term != "" && !matchesSearch(u, term) {
			continue
		}
		out = append(out, u.Clone())
	}
	return out
}

func matchesSearch(u *models.User, term string) bool {
	for _, s := range u.SkillsOffered {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(u.Name), term) ||
		strings.Contains(strings.ToLower(u.Location), term)
}

func (l *Ledger) findByEmailLocked(email string) *models.User {
	key := normalizeEmail(email)
	if key == "" {
		return nil
	}
	for _, u := range l.users {
		if normalizeEmail(u.Email) == key {
			return u
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeSkills обрезает пробелы, убирает пустые и повторяющиеся навыки
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func normalizeAvailability(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		known := false
		for _, opt := range models.AvailabilityOptions {
			if v == opt {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAvailability, v)
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}
