package ledger

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Direction фильтрует запросы по роли пользователя
type Direction string

const (
	DirectionAll      Direction = "all"
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// NewSwapRequest содержит данные нового предложения обмена
type NewSwapRequest struct {
	FromUserID   string
	ToUserID     string
	SkillOffered string
	SkillWanted  string
	Message      string
}

// CreateSwapRequest создаёт запрос в статусе pending.
// Если получатель не существует, состояние не меняется и возвращается ErrUserNotFound.
func (l *Ledger) CreateSwapRequest(in NewSwapRequest) (models.SwapRequest, error) {
	offered := strings.TrimSpace(in.SkillOffered)
	wanted := strings.TrimSpace(in.SkillWanted)
	if offered == "" || wanted == "" {
		return models.SwapRequest{}, ErrInvalidInput
	}
	if in.FromUserID == in.ToUserID {
		return models.SwapRequest{}, ErrSelfSwap
	}

	l.mu.Lock()
	to, ok := l.userByID[in.ToUserID]
	if !ok {
		l.mu.Unlock()
		return models.SwapRequest{}, ErrUserNotFound
	}
	from, ok := l.userByID[in.FromUserID]
	if !ok {
		l.mu.Unlock()
		return models.SwapRequest{}, ErrUserNotFound
	}

	now := l.now()
	req := &models.SwapRequest{
		ID:           l.newID(),
		FromUserID:   from.ID,
		ToUserID:     to.ID,
		FromUserName: from.Name,
		ToUserName:   to.Name,
		SkillOffered: offered,
		SkillWanted:  wanted,
		Message:      strings.TrimSpace(in.Message),
		Status:       models.SwapPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	l.swaps = append(l.swaps, req)
	l.swapByID[req.ID] = req
	l.skillsDirty = true
	out := *req
	seq := l.reserveDispatch()

	l.log.Debug("Создан запрос на обмен",
		zap.String("swap_id", out.ID),
		zap.String("from", out.FromUserID),
		zap.String("to", out.ToUserID),
	)
	l.publish(seq, Event{
		Type:       EventSwapCreated,
		Recipients: []string{out.ToUserID, out.FromUserID},
		Payload:    out,
		At:         now,
	})
	return out, nil
}

// SetSwapStatus меняет статус запроса от имени actorID.
// Принять или отклонить может только получатель, отменить - только отправитель,
// и только пока запрос в статусе pending.
func (l *Ledger) SetSwapStatus(actorID, requestID string, status models.SwapStatus) (models.SwapRequest, error) {
	switch status {
	case models.SwapAccepted, models.SwapRejected, models.SwapCancelled:
	default:
		return models.SwapRequest{}, ErrInvalidTransition
	}

	l.mu.Lock()
	req, ok := l.swapByID[requestID]
	if !ok {
		l.mu.Unlock()
		return models.SwapRequest{}, ErrSwapNotFound
	}

	allowed := req.ToUserID == actorID
	if status == models.SwapCancelled {
		allowed = req.FromUserID == actorID
	}
	if !allowed {
		l.mu.Unlock()
		return models.SwapRequest{}, ErrForbidden
	}
	if req.Status != models.SwapPending {
		l.mu.Unlock()
		return models.SwapRequest{}, ErrInvalidTransition
	}

	out := l.transitionLocked(req, status)
	seq := l.reserveDispatch()

	l.publish(seq, swapChanged(out))
	return out, nil
}

// CompleteSwap переводит принятый запрос в completed; доступно любому участнику
func (l *Ledger) CompleteSwap(actorID, requestID string) (models.SwapRequest, error) {
	l.mu.Lock()
	req, ok := l.swapByID[requestID]
	if !ok {
		l.mu.Unlock()
		return models.SwapRequest{}, ErrSwapNotFound
	}
	if !req.Involves(actorID) {
		l.mu.Unlock()
		return models.SwapRequest{}, ErrForbidden
	}
	if req.Status != models.SwapAccepted {
		l.mu.Unlock()
		return models.SwapRequest{}, ErrInvalidTransition
	}

	out := l.transitionLocked(req, models.SwapCompleted)
	seq := l.reserveDispatch()

	l.publish(seq, swapChanged(out))
	return out, nil
}

func (l *Ledger) transitionLocked(req *models.SwapRequest, status models.SwapStatus) models.SwapRequest {
	req.Status = status
	req.UpdatedAt = l.now()
	l.skillsDirty = true
	return *req
}

func swapChanged(r models.SwapRequest) Event {
	return Event{
		Type:       EventSwapStatusChanged,
		Recipients: []string{r.FromUserID, r.ToUserID},
		Payload:    r,
		At:         r.UpdatedAt,
	}
}

// DeleteSwapRequest удаляет запрос без проверок
func (l *Ledger) DeleteSwapRequest(requestID string) error {
	l.mu.Lock()
	req, ok := l.swapByID[requestID]
	if !ok {
		l.mu.Unlock()
		return ErrSwapNotFound
	}
	out := l.removeSwapLocked(req)
	at := l.now()
	seq := l.reserveDispatch()

	l.publish(seq, Event{Type: EventSwapDeleted, Recipients: []string{out.FromUserID, out.ToUserID}, Payload: out, At: at})
	return nil
}

// DeleteOwnSwapRequest удаляет отклонённый или отменённый запрос по просьбе участника
func (l *Ledger) DeleteOwnSwapRequest(actorID, requestID string) error {
	l.mu.Lock()
	req, ok := l.swapByID[requestID]
	if !ok {
		l.mu.Unlock()
		return ErrSwapNotFound
	}
	if !req.Involves(actorID) {
		l.mu.Unlock()
		return ErrForbidden
	}
	if req.Status != models.SwapRejected && req.Status != models.SwapCancelled {
		l.mu.Unlock()
		return ErrInvalidTransition
	}
	out := l.removeSwapLocked(req)
	at := l.now()
	seq := l.reserveDispatch()

	l.publish(seq, Event{Type: EventSwapDeleted, Recipients: []string{out.FromUserID, out.ToUserID}, Payload: out, At: at})
	return nil
}

func (l *Ledger) removeSwapLocked(req *models.SwapRequest) models.SwapRequest {
	for i, r := range l.swaps {
		if r == req {
			l.swaps = append(l.swaps[:i], l.swaps[i+1:]...)
			break
		}
	}
	delete(l.swapByID, req.ID)
	l.skillsDirty = true
	return *req
}

// GetSwapRequest возвращает запрос по ID
func (l *Ledger) GetSwapRequest(id string) (models.SwapRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	req, ok := l.swapByID[id]
	if !ok {
		return models.SwapRequest{}, ErrSwapNotFound
	}
	return *req, nil
}

// ListSwapRequests возвращает запросы пользователя, новые первыми.
// Пустой status означает любой статус.
func (l *Ledger) ListSwapRequests(userID string, dir Direction, status models.SwapStatus) []models.SwapRequest {
	l.mu.RLock()
	out := []models.SwapRequest{}
	for _, r := range l.swaps {
		switch dir {
		case DirectionIncoming:
			if r.ToUserID != userID {
				continue
			}
		case DirectionOutgoing:
			if r.FromUserID != userID {
				continue
			}
		default:
			if !r.Involves(userID) {
				continue
			}
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, *r)
	}
	l.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// AllSwapRequests возвращает все запросы, новые первыми
func (l *Ledger) AllSwapRequests() []models.SwapRequest {
	l.mu.RLock()
	out := make([]models.SwapRequest, 0, len(l.swaps))
	for _, r := range l.swaps {
		out = append(out, *r)
	}
	l.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

func sortNewestFirst(reqs []models.SwapRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}
