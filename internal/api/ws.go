package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Kusa331/ORBIT/internal/notification"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The gateway terminates origin checks before traffic reaches us.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BellSocket upgrades the connection and keeps it registered until the client
// goes away. Admins are additionally registered under the broadcast key so
// admin-scope alerts nudge every staff bell.
func (h *Handler) BellSocket(c *gin.Context) {
	viewer := currentViewer(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed for viewer %s: %v", viewer.ID, err)
		return
	}

	h.notif.AddWebSocketConnection(viewer.ID, conn)
	if viewer.IsAdmin {
		h.notif.AddWebSocketConnection(notification.AdminBroadcastKey, conn)
	}

	defer func() {
		h.notif.RemoveWebSocketConnection(viewer.ID, conn)
		if viewer.IsAdmin {
			h.notif.RemoveWebSocketConnection(notification.AdminBroadcastKey, conn)
		}
		conn.Close()
	}()

	// Drain until the peer closes. Clients only listen on this socket.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
