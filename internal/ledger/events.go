package ledger

import (
	"sort"
	"time"
)

// EventType определяет тип изменения состояния каталога
type EventType string

const (
	EventUserRegistered          EventType = "user_registered"
	EventProfileUpdated          EventType = "profile_updated"
	EventSwapCreated             EventType = "swap_created"
	EventSwapStatusChanged       EventType = "swap_status_changed"
	EventSwapDeleted             EventType = "swap_deleted"
	EventFeedbackSubmitted       EventType = "feedback_submitted"
	EventUserBanned              EventType = "user_banned"
	EventUserUnbanned            EventType = "user_unbanned"
	EventAdminMessage            EventType = "admin_message"
	EventAdminMessageDeactivated EventType = "admin_message_deactivated"
)

// Event описывает зафиксированное изменение.
// Recipients - пользователи, которых касается событие; Broadcast - событие для всех.
type Event struct {
	Type       EventType `json:"type"`
	Recipients []string  `json:"-"`
	Broadcast  bool      `json:"-"`
	Payload    any       `json:"payload,omitempty"`
	At         time.Time `json:"timestamp"`
}

// Listener получает события после фиксации изменений
type Listener func(Event)

// Subscribe регистрирует слушателя и возвращает функцию отписки
func (l *Ledger) Subscribe(fn Listener) func() {
	l.subMu.Lock()
	defer l.subMu.Unlock()

	id := l.nextSub
	l.nextSub++
	l.listeners[id] = fn

	return func() {
		l.subMu.Lock()
		delete(l.listeners, id)
		l.subMu.Unlock()
	}
}

// reserveDispatch выдаёт номер в очереди рассылки и снимает блокировку состояния.
// Вызывается с захваченным l.mu вместо l.mu.Unlock(); номер передаётся в publish.
func (l *Ledger) reserveDispatch() uint64 {
	l.seq++
	seq := l.seq
	l.mu.Unlock()
	return seq
}

// publish рассылает события строго в порядке фиксации: запись с номером seq
// ждёт, пока разосланы события всех предыдущих записей.
// Слушатели не должны изменять Ledger, иначе рассылка встанет.
func (l *Ledger) publish(seq uint64, events ...Event) {
	l.pubMu.Lock()
	for l.dispatched+1 != seq {
		l.pubCond.Wait()
	}
	l.pubMu.Unlock()

	defer func() {
		l.pubMu.Lock()
		l.dispatched = seq
		l.pubCond.Broadcast()
		l.pubMu.Unlock()
	}()

	l.subMu.RLock()
	ids := make([]int, 0, len(l.listeners))
	for id := range l.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, l.listeners[id])
	}
	l.subMu.RUnlock()

	for _, e := range events {
		for _, fn := range listeners {
			fn(e)
		}
	}
}
