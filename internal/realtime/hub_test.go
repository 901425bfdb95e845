package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func newTestServer(t *testing.T, hub *Hub) string {
	t.Helper()
	srv := httptest.NewServer(hub.Server(func(r *http.Request) string {
		return r.URL.Query().Get("showtime")
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, err := websocket.Dial(url, "", "http://localhost/")
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func receive(t *testing.T, ws *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, websocket.JSON.Receive(ws, &msg))
	return msg
}

func TestHubRoomsAreIsolated(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	url := newTestServer(t, hub)

	a := dial(t, url+"?showtime=s1")
	b := dial(t, url)
	require.NoError(t, websocket.JSON.Send(b, Message{Event: EventJoinShowtime, Data: json.RawMessage(`"s2"`)}))

	require.Eventually(t, func() bool { return hub.RoomSize("s1") == 1 && hub.RoomSize("s2") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastSeats(context.Background(), "s2", model.SeatState{PendingSeats: []string{"A3"}})
	hub.BroadcastSeats(context.Background(), "s1", model.SeatState{BookedSeats: []string{"A1"}})

	got := receive(t, a)
	assert.Equal(t, EventSeatUpdate, got.Event)
	assert.Equal(t, "s1", got.ShowtimeID)
	assert.JSONEq(t, `{"pendingSeats":[],"bookedSeats":["A1"]}`, string(got.Data))

	got = receive(t, b)
	assert.Equal(t, "s2", got.ShowtimeID)
	assert.JSONEq(t, `{"pendingSeats":["A3"],"bookedSeats":[]}`, string(got.Data))
}

func TestHubLeaveAndDisconnect(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	url := newTestServer(t, hub)

	a := dial(t, url+"?showtime=s1")
	require.Eventually(t, func() bool { return hub.RoomSize("s1") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, websocket.JSON.Send(a, Message{Event: EventLeaveShowtime, Data: json.RawMessage(`"s1"`)}))
	require.Eventually(t, func() bool { return hub.RoomSize("s1") == 0 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, websocket.JSON.Send(a, Message{Event: EventJoinShowtime, Data: json.RawMessage(`"s1"`)}))
	require.Eventually(t, func() bool { return hub.RoomSize("s1") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.RoomSize("s1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := &client{send: make(chan []byte, 1), rooms: map[string]struct{}{}}
	hub.join(c, "s1")

	hub.Deliver("s1", []byte("1"))
	hub.Deliver("s1", []byte("2"))
	assert.Zero(t, hub.RoomSize("s1"))
	assert.Nil(t, c.rooms)

	hub.join(c, "s1")
	assert.Zero(t, hub.RoomSize("s1"), "dropped clients cannot rejoin")
}

func TestEncodeSeatUpdate(t *testing.T) {
	b, err := EncodeSeatUpdate("st-9", model.SeatState{PendingSeats: []string{"C4"}, BookedSeats: []string{"A1", "A2"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"seat-update","showtimeId":"st-9","data":{"pendingSeats":["C4"],"bookedSeats":["A1","A2"]}}`, string(b))
}
