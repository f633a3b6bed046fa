package handlers

import (
	"log"
	"net/http"

	"github.com/accounthub/backend/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// WebSocketHandler streams registration notices to connected clients.
type WebSocketHandler struct {
	hub *services.Hub
}

func NewWebSocketHandler(hub *services.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleNotifications handles GET /ws/notifications
func (w *WebSocketHandler) HandleNotifications(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	client := services.NewHubClient(w.hub, conn, c.ClientIP())
	w.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// Stats handles GET /ws/stats
func (w *WebSocketHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"clients": w.hub.ClientCount(),
	})
}
