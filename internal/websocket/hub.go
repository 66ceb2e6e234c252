package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ikkim/giftbox-backend/internal/app/model"
	"github.com/ikkim/giftbox-backend/pkg/logger"
)

const (
	// Per-client outbound buffer; a client that falls this far behind is dropped
	clientSendBuffer = 64
)

// Client is one connected admin console
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// NewClient wires a connection to the hub. conn may be nil in tests.
func NewClient(hub *Hub, conn *Conn, userID uint) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, clientSendBuffer),
	}
}

// Hub fans gift box events out to every connected admin console
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast until ctx is cancelled,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.Send)
		}
		h.mu.Unlock()
		close(h.done)
		logger.Info("WebSocket hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range slow {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"user_id": client.UserID,
				})
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.Send)
	remaining := len(h.clients)
	h.mu.Unlock()

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":           client.UserID,
		"remaining_clients": remaining,
	})
}

// Register adds a client; it is a no-op once the hub has stopped
func (h *Hub) Register(client *Client) {
	select {
	case <-h.done:
		close(client.Send)
		return
	default:
	}

	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishGiftBoxEvent queues event for every admin console. Events are
// dropped when the hub is saturated or stopped.
func (h *Hub) PublishGiftBoxEvent(event model.GiftBoxEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal gift box event", err)
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type":        event.Type,
			"gift_box_id": event.GiftBoxID,
		})
	}
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ClientCount reports the connected admin consoles
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
