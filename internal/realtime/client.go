package realtime

import (
	"encoding/json"
	"time"

	"geochat/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	maxFrameSize = 4096
)

// clientEvent is the wire shape of every client-originated event.
type clientEvent struct {
	Event    string `json:"event"`
	Username string `json:"username"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// Client is one live websocket connection. It carries no identity until the
// client sends a join event binding it to a username's channel. The send
// channel is never closed; the hub retires a client by closing done, so the
// read loop can keep replying without racing the drop.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	username  string
	joined    bool
	friendSvc service.FriendService
	msgSvc    service.MessageService
}

// enqueue queues a reply for the write pump. Non-blocking: a retired client or
// a full buffer drops the reply instead of stalling or crashing the read loop.
func (c *Client) enqueue(payload []byte) {
	select {
	case <-c.done:
	case c.send <- payload:
	default:
	}
}

func (c *Client) readPump() {
	defer func() {
		if c.joined {
			c.hub.UnregisterClient(c)
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { _ = c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var ev clientEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.enqueue([]byte(`{"event":"error","data":"invalid_json"}`))
			continue
		}
		c.handle(ev)
	}
}

func (c *Client) handle(ev clientEvent) {
	switch ev.Event {
	case "join":
		if ev.Username == "" || c.joined {
			return
		}
		c.username = ev.Username
		c.joined = true
		c.hub.RegisterClient(c)

	case "clear-friend-tip":
		// Marks the incoming friend-request rows read, then resends the
		// unread map so every tab drops its badge.
		if ev.Username == "" {
			return
		}
		if err := c.friendSvc.MarkIncomingRequestsRead(ev.Username); err != nil {
			return
		}
		counts, err := c.msgSvc.UnreadCounts(ev.Username)
		if err != nil {
			return
		}
		c.hub.Push(ev.Username, service.EventUnreadUpdated, counts)

	case "friend-removed":
		// Relay-only notice to the removed party's channel.
		if ev.From == "" || ev.To == "" {
			return
		}
		c.hub.Push(ev.To, service.EventFriendRemovedNotice, map[string]string{"from": ev.From})

	case "friend-list-events-read":
		// Relay-only: other tabs of the same user clear their badge.
		if ev.Username == "" {
			return
		}
		c.hub.Push(ev.Username, "friend-list-events-read", nil)

	default:
		c.enqueue([]byte(`{"event":"error","data":"unsupported_event"}`))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker((pongWait * 9) / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) serve() {
	go c.writePump()
	c.readPump()
}
