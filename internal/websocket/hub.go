package websocket

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"scad-studio-be/internal/pkg/logger"
)

// Hub fans file-change events out to every connected websocket client.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// In-process event bus the watcher publishes to
	pubSub *gochannel.GoChannel
	topic  string

	logger logger.ILogger
}

func NewHub(pubSub *gochannel.GoChannel, topic string, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		pubSub:     pubSub,
		topic:      topic,
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.pubSub != nil {
		go h.subscribeToEvents(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"clients": h.clientCount()})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"clients": h.clientCount()})
		}
	}
}

// Broadcast sends a raw JSON payload to all connected clients.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping client", nil)
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) subscribeToEvents(ctx context.Context) {
	messages, err := h.pubSub.Subscribe(ctx, h.topic)
	if err != nil {
		h.logger.Error("Hub", "Failed to subscribe to file events", map[string]interface{}{
			"topic": h.topic,
			"error": err.Error(),
		})
		return
	}

	for msg := range messages {
		h.Broadcast(msg.Payload)
		msg.Ack()
	}
}
