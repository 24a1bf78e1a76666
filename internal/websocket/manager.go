package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// EventConnected отправляется клиенту сразу после регистрации соединения
const EventConnected ledger.EventType = "connected"

// Manager представляет центральный менеджер для всех WebSocket соединений.
// Доставляет события каталога адресатам или всем подключённым клиентам.
type Manager struct {
	mu          sync.RWMutex
	clients     map[uuid.UUID]*Client
	userClients map[string]map[uuid.UUID]struct{} // userID -> clientID

	jwtService *utils.JWTService
	bans       BanChecker
	upgrader   websocket.Upgrader
	gauge      prometheus.Gauge
	log        *zap.Logger
}

// BanChecker сообщает о блокировке пользователя
type BanChecker interface {
	IsBanned(userID string) bool
}

// NewManager создает новый экземпляр Manager; gauge может быть nil
func NewManager(jwtService *utils.JWTService, bans BanChecker, gauge prometheus.Gauge, log *zap.Logger) *Manager {
	return &Manager{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[string]map[uuid.UUID]struct{}),
		jwtService:  jwtService,
		bans:        bans,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		gauge: gauge,
		log:   log.Named("websocket"),
	}
}

// ServeHTTP проверяет токен и переводит соединение в WebSocket.
// Токен передаётся в параметре token или в заголовке Authorization.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		http.Error(w, "Недействительный или просроченный токен", http.StatusUnauthorized)
		return
	}
	if m.bans.IsBanned(claims.UserID) {
		http.Error(w, "Пользователь заблокирован", http.StatusForbidden)
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Debug("Ошибка upgrade", zap.Error(err))
		return
	}

	NewClient(claims.UserID, conn, m).Start()
}

// AddClient регистрирует нового клиента
func (m *Manager) AddClient(client *Client) {
	m.mu.Lock()
	m.clients[client.ID] = client
	if _, exists := m.userClients[client.UserID]; !exists {
		m.userClients[client.UserID] = make(map[uuid.UUID]struct{})
	}
	m.userClients[client.UserID][client.ID] = struct{}{}
	m.mu.Unlock()

	if m.gauge != nil {
		m.gauge.Inc()
	}
	m.log.Debug("Клиент подключён", zap.Stringer("client_id", client.ID), zap.String("user_id", client.UserID))
}

// RemoveClient удаляет клиента; повторный вызов ничего не делает
func (m *Manager) RemoveClient(clientID uuid.UUID) {
	m.mu.Lock()
	client, exists := m.clients[clientID]
	if !exists {
		m.mu.Unlock()
		return
	}
	delete(m.clients, clientID)
	if clients, ok := m.userClients[client.UserID]; ok {
		delete(clients, clientID)
		// Последнее соединение пользователя
		if len(clients) == 0 {
			delete(m.userClients, client.UserID)
		}
	}
	m.mu.Unlock()

	client.close()
	if m.gauge != nil {
		m.gauge.Dec()
	}
	m.log.Debug("Клиент отключён", zap.Stringer("client_id", clientID), zap.String("user_id", client.UserID))
}

// ClientCount возвращает число активных соединений
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// HandleEvent доставляет событие каталога; подписывается через ledger.Subscribe
func (m *Manager) HandleEvent(e ledger.Event) {
	if e.Broadcast {
		m.broadcast(e)
		return
	}
	for _, userID := range e.Recipients {
		m.SendToUser(userID, e)
	}
	if e.Type == ledger.EventUserBanned {
		for _, userID := range e.Recipients {
			m.DisconnectUser(userID)
		}
	}
}

// DisconnectUser закрывает соединения пользователя после отправки уже поставленных в очередь событий
func (m *Manager) DisconnectUser(userID string) {
	m.mu.RLock()
	targets := make([]*Client, 0, len(m.userClients[userID]))
	for id := range m.userClients[userID] {
		targets = append(targets, m.clients[id])
	}
	m.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(nil) {
			m.RemoveClient(c.ID)
		}
	}
}

// SendToUser отправляет событие всем соединениям пользователя
func (m *Manager) SendToUser(userID string, e ledger.Event) {
	m.mu.RLock()
	targets := make([]*Client, 0, len(m.userClients[userID]))
	for clientID := range m.userClients[userID] {
		targets = append(targets, m.clients[clientID])
	}
	m.mu.RUnlock()

	m.deliver(targets, e)
}

func (m *Manager) broadcast(e ledger.Event) {
	m.mu.RLock()
	targets := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		targets = append(targets, c)
	}
	m.mu.RUnlock()

	m.deliver(targets, e)
}

func (m *Manager) deliver(targets []*Client, e ledger.Event) {
	if len(targets) == 0 {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		m.log.Error("Ошибка сериализации события", zap.String("type", string(e.Type)), zap.Error(err))
		return
	}

	for _, c := range targets {
		if !c.enqueue(data) {
			// Канал заполнен, клиент слишком медленный - закрываем соединение
			m.log.Warn("Очередь клиента переполнена, соединение закрыто", zap.Stringer("client_id", c.ID))
			m.RemoveClient(c.ID)
		}
	}
}

// Shutdown закрывает все соединения
func (m *Manager) Shutdown() {
	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.clients))
	for id := range m.clients {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.RemoveClient(id)
	}
}
