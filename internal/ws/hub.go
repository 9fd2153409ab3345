package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playpool/racer/internal/logging"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

var errHubStopped = errors.New("hub stopped")

// RunnerFactory builds the runner of a room the first time a viewer joins.
type RunnerFactory func(room string, hub *Hub) *Runner

// Client is a connected viewer.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	id    string
	room  string
	codec Codec
	send  chan []byte
}

type room struct {
	clients map[string]*Client
	runner  *Runner
	cancel  context.CancelFunc
}

// Hub maintains the set of active clients and the runner of every room.
type Hub struct {
	clients    map[string]*Client // clientID -> Client
	rooms      map[string]*room
	register   chan *Client
	unregister chan *Client
	newRunner  RunnerFactory
	done       chan struct{} // closed when Run returns
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a new Hub. Call Run before registering clients.
func NewHub(newRunner RunnerFactory) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]*room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		newRunner:  newRunner,
		done:       make(chan struct{}),
		logger:     logging.For("ws"),
	}
}

// Run processes joins and leaves until ctx is cancelled. A room's runner
// lives while the room has viewers. On shutdown every runner is stopped and
// every client's send channel closed, which ends its write pump.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			rm, exists := h.rooms[client.room]
			if !exists {
				rm = &room{clients: make(map[string]*Client)}
				if h.newRunner != nil {
					runCtx, cancel := context.WithCancel(ctx)
					rm.runner = h.newRunner(client.room, h)
					rm.cancel = cancel
					go rm.runner.Run(runCtx)
				} else {
					rm.cancel = func() {}
				}
				h.rooms[client.room] = rm
			}
			rm.clients[client.id] = client
			size := len(rm.clients)
			h.mu.Unlock()

			h.logger.Info().Str("client", client.id).Str("room", client.room).Str("codec", string(client.codec)).Int("room_size", size).Msg("viewer connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			if rm, ok := h.rooms[client.room]; ok {
				delete(rm.clients, client.id)
				if len(rm.clients) == 0 {
					rm.cancel()
					delete(h.rooms, client.room)
					h.logger.Debug().Str("room", client.room).Msg("room closed")
				}
			}
			h.mu.Unlock()

			h.logger.Info().Str("client", client.id).Str("room", client.room).Msg("viewer disconnected")
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, rm := range h.rooms {
		rm.cancel()
		delete(h.rooms, id)
	}
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.logger.Info().Msg("hub stopped")
}

// join hands a client to Run. It returns false once the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BroadcastToRoom sends a message to all viewers of a room.
func (h *Hub) BroadcastToRoom(roomID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rm, exists := h.rooms[roomID]
	if !exists {
		return
	}
	h.deliver(rm.clients, msg)
}

// BroadcastAll sends a message to every connected viewer.
func (h *Hub) BroadcastAll(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(h.clients, msg)
}

// SendToClient sends a message to a single viewer.
func (h *Hub) SendToClient(clientID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		h.logger.Debug().Str("client", clientID).Msg("no client for direct message")
		return
	}
	h.deliver(map[string]*Client{clientID: client}, msg)
}

// deliver encodes msg once per codec. Caller holds h.mu.
func (h *Hub) deliver(clients map[string]*Client, msg Message) {
	encoded := make(map[Codec][]byte, 2)
	for _, client := range clients {
		data, ok := encoded[client.codec]
		if !ok {
			var err error
			data, err = client.codec.Marshal(msg)
			if err != nil {
				h.logger.Error().Err(err).Str("type", msg.Type).Str("codec", string(client.codec)).Msg("error marshaling message")
			}
			// nil marks a codec that failed, so it is tried once per message
			encoded[client.codec] = data
		}
		if data == nil {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			h.logger.Warn().Str("client", client.id).Str("room", client.room).Str("type", msg.Type).Msg("send buffer full, dropping message")
		}
	}
}

// Stats counts live rooms and connected viewers.
type Stats struct {
	Rooms   int `json:"rooms"`
	Viewers int `json:"viewers"`
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{Rooms: len(h.rooms), Viewers: len(h.clients)}
}

// RoomSize reports how many viewers are in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if rm, ok := h.rooms[roomID]; ok {
		return len(rm.clients)
	}
	return 0
}

func (h *Hub) runnerFor(roomID string) *Runner {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if rm, ok := h.rooms[roomID]; ok {
		return rm.runner
	}
	return nil
}

// Serve upgrades the request and attaches the viewer to room.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, roomID string, codec Codec) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		id:    ksuid.New().String(),
		room:  roomID,
		codec: codec,
		send:  make(chan []byte, sendBuffer),
	}
	if !h.join(client) {
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return errHubStopped
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump forwards viewer commands to the room's runner.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn().Err(err).Str("client", c.id).Msg("unexpected websocket close")
			}
			return
		}

		var cmd Command
		if err := c.codec.Unmarshal(message, &cmd); err != nil {
			c.hub.SendToClient(c.id, Message{Type: TypeError, Data: ErrorData{Message: "invalid message"}})
			continue
		}
		cmd.ClientID = c.id

		runner := c.hub.runnerFor(c.room)
		if runner == nil || !runner.Submit(cmd) {
			c.hub.SendToClient(c.id, Message{Type: TypeError, Data: ErrorData{Message: "room busy"}})
		}
	}
}

// writePump writes queued messages and keeps the connection alive.
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
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(c.codec.frameType(), message); err != nil {
				c.hub.logger.Debug().Err(err).Str("client", c.id).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.logger.Debug().Err(err).Str("client", c.id).Msg("websocket ping error")
				return
			}
		}
	}
}
