package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
)

const (
	// Максимальное время ожидания для pong от клиента
	pongWait = 60 * time.Second

	// Отправлять ping-сообщения клиенту с этим интервалом
	pingPeriod = (pongWait * 9) / 10

	writeWait = 10 * time.Second

	// Клиент присылает только короткие служебные сообщения
	maxMessageSize = 4 * 1024

	// Размер буфера для отправляемых сообщений
	sendBufferSize = 256
)

// Входящие сообщения клиента
const (
	clientPing = "ping"
	clientPong = "pong"
)

// Client представляет собой отдельное WebSocket соединение
type Client struct {
	ID      uuid.UUID
	UserID  string
	conn    *websocket.Conn
	send    chan []byte // Буферизованный канал исходящих сообщений
	manager *Manager

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient создает новый экземпляр Client
func NewClient(userID string, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:      uuid.New(),
		UserID:  userID,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		manager: manager,
		done:    make(chan struct{}),
	}
}

// Start регистрирует клиента и запускает горутины чтения и записи
func (c *Client) Start() {
	c.manager.AddClient(c)
	c.manager.deliver([]*Client{c}, ledger.Event{
		Type:    EventConnected,
		Payload: map[string]string{"user_id": c.UserID},
		At:      time.Now(),
	})

	go c.readPump()
	go c.writePump()
}

// enqueue ставит сообщение в очередь без блокировки; false - очередь заполнена
func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readPump обрабатывает входящие сообщения от клиента
func (c *Client) readPump() {
	defer c.manager.RemoveClient(c.ID)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.manager.log.Debug("Неожиданное закрытие соединения", zap.Stringer("client_id", c.ID), zap.Error(err))
			}
			return
		}
		c.handleIncomingMessage(message)
	}
}

// writePump отправляет сообщения клиенту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.manager.RemoveClient(c.ID)
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if message == nil {
				// nil в очереди - запрос на закрытие
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			// Отправляем ping для поддержания соединения
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleIncomingMessage обрабатывает служебные сообщения клиента.
// Изменения каталога идут только через HTTP API.
func (c *Client) handleIncomingMessage(message []byte) {
	var in struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &in); err != nil {
		c.manager.log.Debug("Некорректное сообщение клиента", zap.Stringer("client_id", c.ID), zap.Error(err))
		return
	}

	switch in.Type {
	case clientPing:
		c.manager.deliver([]*Client{c}, ledger.Event{Type: clientPong, At: time.Now()})
	default:
		c.manager.log.Debug("Неизвестный тип сообщения", zap.String("type", in.Type))
	}
}
