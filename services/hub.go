package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Send buffer size
	sendBufferSize = 64
)

// Notice is the message pushed to websocket clients for each registration.
type Notice struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Hub relays registration notices from the broker to connected websocket
// clients. Every client sees every notice; this is a live feed, not a
// work queue.
type Hub struct {
	natsConn *nats.Conn

	clients   map[*HubClient]bool
	clientsMu sync.RWMutex

	register   chan *HubClient
	unregister chan *HubClient
}

// HubClient represents one websocket viewer of the notice feed.
type HubClient struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

func NewHub(natsConn *nats.Conn) *Hub {
	return &Hub{
		natsConn:   natsConn,
		clients:    make(map[*HubClient]bool),
		register:   make(chan *HubClient),
		unregister: make(chan *HubClient),
	}
}

func NewHubClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *HubClient {
	return &HubClient{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		remoteAddr: remoteAddr,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *HubClient) {
	h.register <- client
}

// Run subscribes to the registration subject and starts the hub's main
// loop. Blocks; run in a goroutine.
func (h *Hub) Run() {
	sub, err := h.natsConn.Subscribe(RegistrationSubject, func(msg *nats.Msg) {
		h.broadcast(string(msg.Data))
	})
	if err != nil {
		log.Printf("⚠️ Notification hub failed to subscribe: %v", err)
		return
	}
	defer sub.Unsubscribe()

	log.Println("📺 Notification hub started")

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("📺 Client connected: %s", client.remoteAddr)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
			log.Printf("📺 Client disconnected: %s", client.remoteAddr)
		}
	}
}

// broadcast fans a notice out to every connected client
func (h *Hub) broadcast(message string) {
	notice := Notice{
		Type:      "registration",
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	payload, _ := json.Marshal(notice)

	h.clientsMu.RLock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Client buffer full, drop the notice
		}
	}
	h.clientsMu.RUnlock()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ReadPump drains the connection until the peer goes away
func (c *HubClient) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ WebSocket error: %v", err)
			}
			break
		}
	}
}

// WritePump pumps notices from the hub to the websocket connection
func (c *HubClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
