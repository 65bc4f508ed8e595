package realtime

import (
	"encoding/json"
	"sync"

	"github.com/Liyulingyue/PaddleLabel/internal/logger"

	"go.uber.org/zap"
)

// Client is one websocket connection. The network side lives in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event types pushed to the labeling UI.
const (
	EventImportFinished = "import_finished"
	EventExportFinished = "export_finished"
	EventLabelCreated   = "label_created"
	EventTaskDeleted    = "task_deleted"
)

// Event is the JSON envelope sent to clients.
type Event struct {
	Type      string `json:"type"`
	ProjectID uint   `json:"project_id,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// Hub maintains active user connections and broadcasts events to them.
type Hub struct {
	mu            sync.RWMutex
	clientsByUser map[string]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clientsByUser: make(map[string]map[Client]struct{})}
}

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clientsByUser[userID]; !ok {
		h.clientsByUser[userID] = make(map[Client]struct{})
	}
	h.clientsByUser[userID][client] = struct{}{}
}

// Unregister removes a client; if user has no more clients, cleans up map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clientsByUser[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clientsByUser, userID)
		}
	}
}

// Clients returns how many connections a user has open.
func (h *Hub) Clients(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clientsByUser[userID])
}

// Broadcast sends a message to all clients of a user and returns how many accepted it.
// Failed clients are left for their handler to clean up.
func (h *Hub) Broadcast(userID string, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.clientsByUser[userID] {
		if c.Send(message) {
			delivered++
		}
	}
	return delivered
}

// Publish encodes ev and broadcasts it to userID.
func (h *Hub) Publish(userID string, ev Event) int {
	if userID == "" {
		return 0
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Named("realtime").Error("encode event", zap.String("type", ev.Type), zap.Error(err))
		return 0
	}
	return h.Broadcast(userID, msg)
}
