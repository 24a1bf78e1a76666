package ledger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// SubmitFeedback добавляет отзыв участника raterID о втором участнике обмена
// и обновляет его рейтинг. Обе операции выполняются под одной блокировкой.
func (l *Ledger) SubmitFeedback(swapRequestID, raterID string, rating int, comment string) (models.Feedback, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return models.Feedback{}, ErrInvalidRating
	}

	l.mu.Lock()
	swap, ok := l.swapByID[swapRequestID]
	if !ok {
		l.mu.Unlock()
		return models.Feedback{}, ErrSwapNotFound
	}
	if !swap.Involves(raterID) {
		l.mu.Unlock()
		return models.Feedback{}, ErrForbidden
	}
	if swap.Status != models.SwapCompleted {
		l.mu.Unlock()
		return models.Feedback{}, ErrSwapNotCompleted
	}
	if l.hasFeedbackLocked(swapRequestID, raterID) {
		l.mu.Unlock()
		return models.Feedback{}, ErrDuplicateFeedback
	}

	target, ok := l.userByID[swap.Counterpart(raterID)]
	if !ok {
		l.mu.Unlock()
		return models.Feedback{}, ErrUserNotFound
	}

	f := models.Feedback{
		ID:            l.newID(),
		SwapRequestID: swapRequestID,
		FromUserID:    raterID,
		ToUserID:      target.ID,
		Rating:        rating,
		Comment:       strings.TrimSpace(comment),
		CreatedAt:     l.now(),
	}
	l.feedback = append(l.feedback, f)

	l.ratingSums[target.ID] += rating
	target.TotalRatings++
	target.Rating = float64(l.ratingSums[target.ID]) / float64(target.TotalRatings)
	rated := target.Clone()
	seq := l.reserveDispatch()

	l.log.Debug("Добавлен отзыв",
		zap.String("swap_id", swapRequestID),
		zap.String("to", rated.ID),
		zap.Float64("rating", rated.Rating),
		zap.Int("total_ratings", rated.TotalRatings),
	)
	l.publish(seq, Event{
		Type:       EventFeedbackSubmitted,
		Recipients: []string{f.ToUserID},
		Payload:    FeedbackSubmitted{Feedback: f, Rating: rated.Rating, TotalRatings: rated.TotalRatings},
		At:         f.CreatedAt,
	})
	return f, nil
}

// FeedbackSubmitted - полезная нагрузка события о новом отзыве
type FeedbackSubmitted struct {
	Feedback     models.Feedback `json:"feedback"`
	Rating       float64         `json:"rating"`
	TotalRatings int             `json:"total_ratings"`
}

func (l *Ledger) hasFeedbackLocked(swapRequestID, raterID string) bool {
	for _, f := range l.feedback {
		if f.SwapRequestID == swapRequestID && f.FromUserID == raterID {
			return true
		}
	}
	return false
}

// PendingFeedback возвращает завершённые обмены пользователя, по которым он ещё не оставил отзыв
func (l *Ledger) PendingFeedback(userID string) []models.SwapRequest {
	l.mu.RLock()
	out := []models.SwapRequest{}
	for _, r := range l.swaps {
		if r.Status != models.SwapCompleted || !r.Involves(userID) {
			continue
		}
		if l.hasFeedbackLocked(r.ID, userID) {
			continue
		}
		out = append(out, *r)
	}
	l.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// GivenFeedback возвращает отзывы, оставленные пользователем
func (l *Ledger) GivenFeedback(userID string) []models.Feedback {
	return l.filterFeedback(func(f models.Feedback) bool { return f.FromUserID == userID })
}

// ReceivedFeedback возвращает отзывы о пользователе
func (l *Ledger) ReceivedFeedback(userID string) []models.Feedback {
	return l.filterFeedback(func(f models.Feedback) bool { return f.ToUserID == userID })
}

// AllFeedback возвращает все отзывы в порядке добавления
func (l *Ledger) AllFeedback() []models.Feedback {
	return l.filterFeedback(func(models.Feedback) bool { return true })
}

func (l *Ledger) filterFeedback(keep func(models.Feedback) bool) []models.Feedback {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.Feedback{}
	for _, f := range l.feedback {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
