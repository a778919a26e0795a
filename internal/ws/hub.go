// Package ws pushes room snapshots to connected clients over WebSocket. The
// hub only fans out payloads the session layer has already serialized;
// inbound frames are ignored because every mutation goes through the HTTP
// action endpoint.
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Itoshi-web/idksan/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// broadcast couples a payload with the room it belongs to.
type broadcast struct {
	roomCode string
	payload  []byte
}

// Client is one WebSocket connection subscribed to a single room.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	roomCode string
	playerID string
}

// Hub maintains the set of active clients per room and fans broadcasts out
// to them. All registry mutation happens on the Run goroutine.
type Hub struct {
	rooms map[string]map[*Client]bool

	broadcasts chan broadcast
	register   chan *Client
	unregister chan *Client
}

// NewHub returns a hub; call Run on its own goroutine before serving.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		// Buffered so a room-lock holder never stalls on a busy hub.
		broadcasts: make(chan broadcast, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case b := <-h.broadcasts:
			h.deliver(b)
		}
	}
}

// Broadcast queues a payload for every client of a room. It never blocks:
// when the hub is saturated the payload is dropped and the next snapshot
// catches the clients up.
func (h *Hub) Broadcast(roomCode string, message []byte) {
	select {
	case h.broadcasts <- broadcast{roomCode: roomCode, payload: message}:
	default:
		logging.Warn("hub saturated, dropping broadcast", logging.Fields{"room": roomCode})
	}
}

// ServeWS upgrades an HTTP request and subscribes the connection to a room.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomCode, playerID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{"room": roomCode})
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		roomCode: roomCode,
		playerID: playerID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Hub) registerClient(client *Client) {
	if h.rooms[client.roomCode] == nil {
		h.rooms[client.roomCode] = make(map[*Client]bool)
	}
	h.rooms[client.roomCode][client] = true
	logging.Info("client subscribed", logging.Fields{
		"room":    client.roomCode,
		"player":  client.playerID,
		"clients": len(h.rooms[client.roomCode]),
	})
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.rooms[client.roomCode]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.roomCode)
	}
	logging.Info("client unsubscribed", logging.Fields{
		"room":    client.roomCode,
		"player":  client.playerID,
		"clients": len(clients),
	})
}

func (h *Hub) deliver(b broadcast) {
	for client := range h.rooms[b.roomCode] {
		select {
		case client.send <- b.payload:
		default:
			// Slow consumer, drop the connection rather than the room.
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection to keep pong handling alive. Frames from
// the client are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn("websocket read error", logging.Fields{"room": c.roomCode, "error": err.Error()})
			}
			return
		}
	}
}

// writePump forwards queued payloads to the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
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
