package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/yourusername/gammonboard/pkg/board"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

const (
	// pongPeriod is how long a client may stay silent before it is disconnected.
	pongPeriod = 60 * time.Second

	// pingPeriod is how often the server pings; it must be shorter than pongPeriod.
	pingPeriod = pongPeriod * 9 / 10

	writeWait      = 10 * time.Second
	maxMessageSize = 16 << 10

	// messageBurst is how many messages a client may send at once above its rate.
	messageBurst = 10
)

// WSClient is a seat connected to a table.
type WSClient struct {
	conn    *websocket.Conn
	table   *Table
	seat    board.MovableColor
	send    subscriber
	limiter *rate.Limiter
	saver   *recordSaver
}

// WebSocket handles GET /api/tables/{id}/ws?token=...
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	tableID, seat, err := h.tokens.Read(r.URL.Query().Get("token"))
	if err != nil || tableID != t.ID() {
		writeError(w, http.StatusUnauthorized, "invalid seat token", "UNAUTHORIZED")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	ctx := r.Context()
	send, err := t.Subscribe(ctx)
	if err != nil {
		conn.Close()
		return
	}
	client := &WSClient{
		conn:    conn,
		table:   t,
		seat:    seat,
		send:    send,
		limiter: rate.NewLimiter(h.messageRate, messageBurst),
		saver:   h.saver,
	}
	go client.writePump()
	client.readPump(ctx)
}

// writePump sends the table's messages and pings until the subscription is closed.
func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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

// readPump hands the client's messages to the table until the connection fails.
func (c *WSClient) readPump(ctx context.Context) {
	defer func() {
		c.table.Unsubscribe(context.Background(), c.send)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongPeriod))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongPeriod))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongPeriod))
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.table.Reply(ctx, c.send, WSResponse{Type: "error", Error: "invalid message"})
			continue
		}
		if !c.limiter.Allow() {
			c.table.Reply(ctx, c.send, WSResponse{Type: "error", ID: msg.ID, Error: "too many messages"})
			continue
		}
		if err := c.table.Handle(ctx, c.send, c.seat, msg, c.saver); err != nil {
			return
		}
	}
}
