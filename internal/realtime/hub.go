// Package realtime pushes seat availability to websocket clients grouped in
// per-showtime rooms.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

const (
	EventSeatUpdate    = "seat-update"
	EventJoinShowtime  = "join-showtime"
	EventLeaveShowtime = "leave-showtime"

	sendBuffer   = 16
	writeTimeout = 10 * time.Second
)

// Message is the envelope for both directions. Clients send Data as the
// showtime id string; the server sends the seat state.
type Message struct {
	Event      string          `json:"event"`
	ShowtimeID string          `json:"showtimeId,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

type client struct {
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{}
}

// Hub tracks connected clients and their rooms. It is safe for concurrent
// use; a client whose send buffer is full is disconnected rather than
// stalling the broadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{rooms: map[string]map[*client]struct{}{}, log: log.With().Str("component", "realtime").Logger()}
}

// BroadcastSeats delivers a seat-update to the showtime's room in this
// process.
func (h *Hub) BroadcastSeats(_ context.Context, showtimeID string, state model.SeatState) {
	payload, err := EncodeSeatUpdate(showtimeID, state)
	if err != nil {
		h.log.Error().Err(err).Str("showtime_id", showtimeID).Msg("encode seat update")
		return
	}
	h.Deliver(showtimeID, payload)
}

// Deliver fans an already encoded message out to a room.
func (h *Hub) Deliver(room string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
			h.log.Warn().Str("showtime_id", room).Msg("slow websocket client dropped")
			h.dropLocked(c)
		}
	}
}

// RoomSize is the number of clients currently in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Server returns the websocket endpoint. room extracts the showtime to join
// on connect from the request; it may return "".
func (h *Hub) Server(room func(*http.Request) string) websocket.Server {
	return websocket.Server{
		// any origin may subscribe
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler: func(ws *websocket.Conn) {
			initial := ""
			if room != nil {
				initial = room(ws.Request())
			}
			h.serve(ws, initial)
		},
	}
}

func (h *Hub) serve(ws *websocket.Conn, initial string) {
	c := &client{conn: ws, send: make(chan []byte, sendBuffer), rooms: map[string]struct{}{}}
	if initial != "" {
		h.join(c, initial)
	}
	done := make(chan struct{})
	go h.writeLoop(c, done)

	for {
		var msg Message
		if err := websocket.JSON.Receive(ws, &msg); err != nil {
			break
		}
		var room string
		if err := json.Unmarshal(msg.Data, &room); err != nil || room == "" {
			continue
		}
		switch msg.Event {
		case EventJoinShowtime:
			h.join(c, room)
		case EventLeaveShowtime:
			h.leave(c, room)
		}
	}

	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
	<-done
}

func (h *Hub) writeLoop(c *client, done chan<- struct{}) {
	defer close(done)
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := c.conn.Write(payload); err != nil {
			h.mu.Lock()
			h.dropLocked(c)
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) join(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.rooms == nil {
		return // already dropped
	}
	members, ok := h.rooms[room]
	if !ok {
		members = map[*client]struct{}{}
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
	h.log.Debug().Str("showtime_id", room).Int("members", len(members)).Msg("client joined")
}

func (h *Hub) leave(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
	delete(c.rooms, room)
}

func (h *Hub) leaveLocked(c *client, room string) {
	members := h.rooms[room]
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// dropLocked removes c from every room and closes its send channel. It is
// idempotent; c.rooms == nil marks a dropped client.
func (h *Hub) dropLocked(c *client) {
	if c.rooms == nil {
		return
	}
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
	c.rooms = nil
	close(c.send)
}

// EncodeSeatUpdate renders the seat-update message for a showtime.
func EncodeSeatUpdate(showtimeID string, state model.SeatState) ([]byte, error) {
	if state.PendingSeats == nil {
		state.PendingSeats = []string{}
	}
	if state.BookedSeats == nil {
		state.BookedSeats = []string{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: EventSeatUpdate, ShowtimeID: showtimeID, Data: data})
}
