package notification

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Kusa331/ORBIT/internal/logging"
)

// AdminBroadcastKey groups the connections of every signed-in admin so that
// admin-scope alerts reach all of them with one send.
const AdminBroadcastKey = "admins"

const maxConnsPerKey = 10

// WebSocketManager tracks the live bell connections per user.
type WebSocketManager struct {
	connections map[string]map[*websocket.Conn]bool
	mutex       sync.Mutex
	logger      *logging.Logger
}

func NewWebSocketManager(logger *logging.Logger) *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[string]map[*websocket.Conn]bool),
		logger:      logger,
	}
}

func (m *WebSocketManager) AddConnection(key string, conn *websocket.Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, exists := m.connections[key]; !exists {
		m.connections[key] = make(map[*websocket.Conn]bool)
	}
	if len(m.connections[key]) >= maxConnsPerKey {
		m.logger.Warnf("Max connections reached for %s", key)
		return
	}
	m.connections[key][conn] = true
	m.logger.Infof("Added WebSocket connection for %s (total: %d)", key, len(m.connections[key]))
}

func (m *WebSocketManager) RemoveConnection(key string, conn *websocket.Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if conns, exists := m.connections[key]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(m.connections, key)
		}
		m.logger.Infof("Removed WebSocket connection for %s (remaining: %d)", key, len(conns))
	}
}

// SendToKey writes a message to every connection under the key, dropping
// connections that fail.
func (m *WebSocketManager) SendToKey(key string, message []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if conns, exists := m.connections[key]; exists {
		for conn := range conns {
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				m.logger.Errorf("Failed to send WebSocket message to %s: %v", key, err)
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(m.connections, key)
		}
	}
}
