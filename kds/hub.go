package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/cafe-api/models"
	"github.com/yeremiapane/cafe-api/utils"
)

// Event types
const (
	EventCafeAdded        = "cafe_added"
	EventCafePriceUpdated = "cafe_price_updated"
	EventCafeClosed       = "cafe_closed"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const (
	// writeWait bounds a single write to a client socket.
	writeWait = 5 * time.Second
	// sendBuffer is how many messages may queue for a slow client before it is dropped.
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans cafe change events out to every connected websocket client.
// Broadcast never writes to a socket itself; each client has its own writer
// goroutine, so a stalled client cannot block the caller.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
}

// Unregister removes conn and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.drop(c)
	}
}

// drop must be called with h.mutex held.
func (h *Hub) drop(c *client) {
	delete(h.clients, c.conn)
	close(c.send)
	c.conn.Close()
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending message to client: %v", err)
			h.Unregister(c.conn)
			return
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) BroadcastCafeAdded(cafe models.Cafe) {
	h.Broadcast(Message{Event: EventCafeAdded, Data: cafe})
}

func (h *Hub) BroadcastPriceUpdated(cafe models.Cafe) {
	h.Broadcast(Message{Event: EventCafePriceUpdated, Data: cafe})
}

func (h *Hub) BroadcastCafeClosed(cafe models.Cafe) {
	h.Broadcast(Message{Event: EventCafeClosed, Data: cafe})
}

// Broadcast queues msg for all clients. A client whose queue is full is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	utils.InfoLogger.Debugf("Broadcasting %s to %d clients", msg.Event, len(h.clients))

	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.Printf("Dropping slow feed client %s", c.conn.RemoteAddr())
			h.drop(c)
		}
	}
}
