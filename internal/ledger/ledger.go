package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Ledger - единственный владелец состояния каталога: пользователей,
// запросов на обмен, отзывов и объявлений администратора.
// Все методы безопасны для конкурентного вызова; наружу отдаются только копии.
type Ledger struct {
	mu       sync.RWMutex
	users    []*models.User
	userByID map[string]*models.User
	swaps    []*models.SwapRequest
	swapByID map[string]*models.SwapRequest
	feedback []models.Feedback
	messages []*models.AdminMessage

	// Сумма оценок на пользователя; вместе с TotalRatings даёт среднее
	ratingSums map[string]int

	skillCache  []models.SkillReport
	skillsDirty bool

	subMu     sync.RWMutex
	listeners map[int]Listener
	nextSub   int

	// Очередь рассылки: seq выдаётся под mu, dispatched меняется под pubMu
	seq        uint64
	dispatched uint64
	pubMu      sync.Mutex
	pubCond    *sync.Cond

	now   func() time.Time
	newID func() string
	log   *zap.Logger
}

// Option настраивает Ledger
type Option func(*Ledger)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

// WithLogger задаёт логгер
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// New создаёт пустой Ledger
func New(opts ...Option) *Ledger {
	l := &Ledger{
		userByID:    make(map[string]*models.User),
		swapByID:    make(map[string]*models.SwapRequest),
		ratingSums:  make(map[string]int),
		listeners:   make(map[int]Listener),
		skillsDirty: true,
		now:         time.Now,
		newID:       newTimeOrderedID,
		log:         zap.NewNop(),
	}
	l.pubCond = sync.NewCond(&l.pubMu)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Snapshot - полная копия состояния каталога
type Snapshot struct {
	Users        []models.User         `json:"users"`
	SwapRequests []models.SwapRequest  `json:"swap_requests"`
	Feedback     []models.Feedback     `json:"feedback"`
	Messages     []models.AdminMessage `json:"messages"`
}

// Snapshot возвращает согласованную копию всех коллекций
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Snapshot{
		Users:        make([]models.User, 0, len(l.users)),
		SwapRequests: make([]models.SwapRequest, 0, len(l.swaps)),
		Feedback:     append([]models.Feedback(nil), l.feedback...),
		Messages:     make([]models.AdminMessage, 0, len(l.messages)),
	}
	for _, u := range l.users {
		s.Users = append(s.Users, u.Clone())
	}
	for _, r := range l.swaps {
		s.SwapRequests = append(s.SwapRequests, *r)
	}
	for _, m := range l.messages {
		s.Messages = append(s.Messages, *m)
	}
	return s
}

// Import заменяет состояние содержимым снимка.
// Поля Rating и TotalRatings пользователей пересчитываются по отзывам,
// значения из снимка игнорируются.
func (l *Ledger) Import(s Snapshot) error {
	users := make([]*models.User, 0, len(s.Users))
	userByID := make(map[string]*models.User, len(s.Users))
	emails := make(map[string]bool, len(s.Users))
	for _, u := range s.Users {
		if u.ID == "" || userByID[u.ID] != nil {
			return fmt.Errorf("%w: duplicate or empty user id %q", ErrInconsistentSnapshot, u.ID)
		}
		if u.Email != "" {
			key := normalizeEmail(u.Email)
			if emails[key] {
				return fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
			}
			emails[key] = true
		}
		availability, err := normalizeAvailability(u.Availability)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.ID, err)
		}
		cp := u.Clone()
		cp.Name = strings.TrimSpace(cp.Name)
		cp.SkillsOffered = normalizeSkills(cp.SkillsOffered)
		cp.SkillsWanted = normalizeSkills(cp.SkillsWanted)
		cp.Availability = availability
		cp.Rating, cp.TotalRatings = 0, 0
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = l.now()
		}
		users = append(users, &cp)
		userByID[cp.ID] = &cp
	}

	swaps := make([]*models.SwapRequest, 0, len(s.SwapRequests))
	swapByID := make(map[string]*models.SwapRequest, len(s.SwapRequests))
	for _, r := range s.SwapRequests {
		if r.ID == "" || swapByID[r.ID] != nil {
			return fmt.Errorf("%w: duplicate or empty swap id %q", ErrInconsistentSnapshot, r.ID)
		}
		from, to := userByID[r.FromUserID], userByID[r.ToUserID]
		if from == nil || to == nil {
			return fmt.Errorf("%w: swap %s", ErrInconsistentSnapshot, r.ID)
		}
		if !r.Status.Valid() {
			return fmt.Errorf("%w: swap %s has status %q", ErrInvalidInput, r.ID, r.Status)
		}
		cp := r
		if cp.FromUserName == "" {
			cp.FromUserName = from.Name
		}
		if cp.ToUserName == "" {
			cp.ToUserName = to.Name
		}
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = l.now()
		}
		if cp.UpdatedAt.IsZero() {
			cp.UpdatedAt = cp.CreatedAt
		}
		swaps = append(swaps, &cp)
		swapByID[cp.ID] = &cp
	}

	sums := make(map[string]int)
	seen := make(map[string]bool, len(s.Feedback))
	for _, f := range s.Feedback {
		swap := swapByID[f.SwapRequestID]
		if swap == nil || !swap.Involves(f.FromUserID) || swap.Counterpart(f.FromUserID) != f.ToUserID {
			return fmt.Errorf("%w: feedback %s", ErrInconsistentSnapshot, f.ID)
		}
		if f.Rating < models.MinRating || f.Rating > models.MaxRating {
			return fmt.Errorf("%w: feedback %s", ErrInvalidRating, f.ID)
		}
		key := f.SwapRequestID + "/" + f.FromUserID
		if seen[key] {
			return fmt.Errorf("%w: feedback %s", ErrDuplicateFeedback, f.ID)
		}
		seen[key] = true

		to := userByID[f.ToUserID]
		sums[to.ID] += f.Rating
		to.TotalRatings++
	}
	for id, sum := range sums {
		u := userByID[id]
		u.Rating = float64(sum) / float64(u.TotalRatings)
	}

	messages := make([]*models.AdminMessage, 0, len(s.Messages))
	messageIDs := make(map[string]bool, len(s.Messages))
	for _, m := range s.Messages {
		if m.ID == "" || messageIDs[m.ID] {
			return fmt.Errorf("%w: duplicate or empty message id %q", ErrInconsistentSnapshot, m.ID)
		}
		messageIDs[m.ID] = true
		if !m.Type.Valid() {
			return fmt.Errorf("%w: message %s", ErrInvalidMessageType, m.ID)
		}
		cp := m
		messages = append(messages, &cp)
	}

	l.mu.Lock()
	l.users, l.userByID = users, userByID
	l.swaps, l.swapByID = swaps, swapByID
	l.feedback = append([]models.Feedback(nil), s.Feedback...)
	l.messages = messages
	l.ratingSums = sums
	l.skillsDirty = true
	l.mu.Unlock()

	l.log.Info("Состояние каталога загружено",
		zap.Int("users", len(users)),
		zap.Int("swap_requests", len(swaps)),
		zap.Int("feedback", len(s.Feedback)),
		zap.Int("messages", len(messages)),
	)
	return nil
}
