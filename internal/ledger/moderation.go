package ledger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// BanUser блокирует пользователя. Запросы на обмен и отзывы не затрагиваются.
func (l *Ledger) BanUser(userID string) (models.User, error) {
	return l.setBanned(userID, true)
}

// UnbanUser снимает блокировку и возвращает пользователя в каталог
func (l *Ledger) UnbanUser(userID string) (models.User, error) {
	return l.setBanned(userID, false)
}

// IsBanned сообщает, заблокирован ли пользователь; неизвестный пользователь не заблокирован
func (l *Ledger) IsBanned(userID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	u, ok := l.userByID[userID]
	return ok && u.IsBanned
}

func (l *Ledger) setBanned(userID string, banned bool) (models.User, error) {
	l.mu.Lock()
	u, ok := l.userByID[userID]
	if !ok {
		l.mu.Unlock()
		return models.User{}, ErrUserNotFound
	}
	u.IsBanned = banned
	u.IsActive = !banned
	out := u.Clone()
	at := l.now()
	seq := l.reserveDispatch()

	eventType := EventUserUnbanned
	if banned {
		eventType = EventUserBanned
	}
	l.log.Info("Изменён статус блокировки", zap.String("user_id", userID), zap.Bool("banned", banned))
	l.publish(seq, Event{Type: eventType, Recipients: []string{userID}, Payload: out, At: at})
	return out, nil
}

// BroadcastMessage публикует объявление для всей платформы
func (l *Ledger) BroadcastMessage(title, content string, msgType models.MessageType) (models.AdminMessage, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return models.AdminMessage{}, ErrInvalidInput
	}
	if !msgType.Valid() {
		return models.AdminMessage{}, ErrInvalidMessageType
	}

	l.mu.Lock()
	m := &models.AdminMessage{
		ID:        l.newID(),
		Title:     title,
		Content:   content,
		Type:      msgType,
		CreatedAt: l.now(),
		IsActive:  true,
	}
	l.messages = append(l.messages, m)
	out := *m
	seq := l.reserveDispatch()

	l.publish(seq, Event{Type: EventAdminMessage, Broadcast: true, Payload: out, At: out.CreatedAt})
	return out, nil
}

// DeactivateMessage снимает объявление с показа
func (l *Ledger) DeactivateMessage(id string) (models.AdminMessage, error) {
	l.mu.Lock()
	var m *models.AdminMessage
	for _, candidate := range l.messages {
		if candidate.ID == id {
			m = candidate
			break
		}
	}
	if m == nil {
		l.mu.Unlock()
		return models.AdminMessage{}, ErrMessageNotFound
	}
	m.IsActive = false
	out := *m
	at := l.now()
	seq := l.reserveDispatch()

	l.publish(seq, Event{Type: EventAdminMessageDeactivated, Broadcast: true, Payload: out, At: at})
	return out, nil
}

// ActiveMessages возвращает активные объявления, новые первыми
func (l *Ledger) ActiveMessages() []models.AdminMessage {
	return l.listMessages(true)
}

// AllMessages возвращает все объявления, новые первыми
func (l *Ledger) AllMessages() []models.AdminMessage {
	return l.listMessages(false)
}

func (l *Ledger) listMessages(activeOnly bool) []models.AdminMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.AdminMessage{}
	for i := len(l.messages) - 1; i >= 0; i-- {
		m := l.messages[i]
		if activeOnly && !m.IsActive {
			continue
		}
		out = append(out, *m)
	}
	return out
}
