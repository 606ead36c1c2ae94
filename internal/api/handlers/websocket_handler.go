package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/gocomet/rider-tracker/internal/ws"
	"github.com/gocomet/rider-tracker/pkg/logger"
)

// HandleWebSocket handles GET /ws. The session starts anonymous; riders
// bind an identity by sending a rider_online message once connected.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  h.Cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: h.Cfg.WebSocket.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}

	clientType := c.Query("client_type")
	if clientType == "" {
		clientType = "rider"
	}

	client := ws.NewClient(h.Hub, conn, clientType, h.Cfg.WebSocket.SendQueueSize, h.Logger)
	h.Hub.Register(client)
	h.Monitor.RecordActiveSessions(h.Hub.ActiveConnections())

	go client.WritePump()
	go client.ReadPump()
}
