package realtime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "user:"

// envelope is the wire shape of every server-originated event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type delivery struct {
	username string
	payload  []byte
}

// Hub is the per-username channel registry. A username maps to every live
// connection that joined it, so multi-tab and multi-device clients all
// receive pushes. The registry is purely in-memory routing state, rebuilt
// from scratch on restart and reconnect.
//
// With a redis client configured, pushes go through pub/sub on user:<name>
// channels so every instance delivers to its local connections; without one
// the hub delivers locally.
type Hub struct {
	rdb    *redis.Client
	logger *zap.SugaredLogger

	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliveries chan delivery
}

func NewHub(rdb *redis.Client, logger *zap.SugaredLogger) *Hub {
	h := &Hub{
		rdb:        rdb,
		logger:     logger,
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, 256),
	}
	go h.run()
	return h
}

// Push delivers the event to every live connection on the user's channel.
// Fire-and-forget: a channel with no members swallows the push.
func (h *Hub) Push(username, event string, payload any) {
	body, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Warnw("event marshal failed", "event", event, "error", err)
		return
	}
	if h.rdb != nil {
		if err := h.rdb.Publish(context.Background(), channelPrefix+username, body).Err(); err != nil {
			h.logger.Warnw("event publish failed", "event", event, "username", username, "error", err)
		}
		return
	}
	h.deliveries <- delivery{username: username, payload: body}
}

func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

func (h *Hub) run() {
	if h.rdb != nil {
		pubsub := h.rdb.PSubscribe(context.Background(), channelPrefix+"*")
		ch := pubsub.Channel()
		go func() {
			for msg := range ch {
				username := strings.TrimPrefix(msg.Channel, channelPrefix)
				h.deliveries <- delivery{username: username, payload: []byte(msg.Payload)}
			}
		}()
	}

	for {
		select {
		case c := <-h.register:
			if _, ok := h.clients[c.username]; !ok {
				h.clients[c.username] = make(map[*Client]bool)
			}
			h.clients[c.username][c] = true
			h.logger.Infow("channel joined", "username", c.username)
		case c := <-h.unregister:
			if conns, ok := h.clients[c.username]; ok {
				if _, exists := conns[c]; exists {
					delete(conns, c)
					close(c.done)
				}
				if len(conns) == 0 {
					delete(h.clients, c.username)
				}
			}
		case d := <-h.deliveries:
			for c := range h.clients[d.username] {
				select {
				case c.send <- d.payload:
				default:
					// Slow consumer; drop the connection rather than block.
					// Retiring goes through done so the read loop's own sends
					// stay safe.
					close(c.done)
					delete(h.clients[d.username], c)
				}
			}
		}
	}
}
