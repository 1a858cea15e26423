package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/apex/log"

	"ecowatch/metrics"
	"ecowatch/models"
)

// Hub fans store events out to connected feed clients
type Hub struct {
	clients map[*Client]bool

	broadcast chan []byte

	Register   chan *Client
	Unregister chan *Client

	done chan struct{}

	mutex            sync.RWMutex
	connectedClients int
	lastEventType    string
	sent             int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast requests until Stop
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.connectedClients = 0
			h.mutex.Unlock()
			metrics.FeedClients.Set(0)
			return

		case client := <-h.Register:
			h.mutex.Lock()
			h.clients[client] = true
			h.connectedClients = len(h.clients)
			h.mutex.Unlock()
			metrics.FeedClients.Set(float64(h.Clients()))
			log.Infof("Feed client connected. Total clients: %d", h.Clients())

		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connectedClients = len(h.clients)
			}
			h.mutex.Unlock()
			metrics.FeedClients.Set(float64(h.Clients()))
			log.Infof("Feed client disconnected. Total clients: %d", h.Clients())

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.connectedClients = len(h.clients)
			h.mutex.Unlock()
		}
	}
}

// Stop ends Run and closes every client
func (h *Hub) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// Broadcast queues an event for all clients. The call never blocks; events
// are dropped when the queue is full.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	message := models.BroadcastMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.WithError(err).Error("Failed to marshal broadcast message")
		return
	}

	select {
	case h.broadcast <- payload:
		h.mutex.Lock()
		h.lastEventType = eventType
		h.sent++
		h.mutex.Unlock()
	default:
		log.Warnf("Feed queue full, dropping %s event", eventType)
	}
}

func (h *Hub) Clients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connectedClients
}

// Stats reports connected clients, events queued and the last event type
func (h *Hub) Stats() (int, int, string) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connectedClients, h.sent, h.lastEventType
}
