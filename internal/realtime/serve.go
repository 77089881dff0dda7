package realtime

import (
	"net/http"
	"strings"

	"geochat/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the HTTP connection and starts the client pumps. A bearer
// token from login, when present, pre-binds the connection to its username;
// the join event remains the usual binding mechanism.
func ServeWS(hub *Hub, friendSvc service.FriendService, msgSvc service.MessageService, tokenSecret []byte, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var username string
		if auth := r.Header.Get("Authorization"); auth != "" {
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				if sub, err := service.ParseToken(parts[1], tokenSecret); err == nil {
					username = sub
				}
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warnw("websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			hub:       hub,
			conn:      conn,
			send:      make(chan []byte, 256),
			done:      make(chan struct{}),
			friendSvc: friendSvc,
			msgSvc:    msgSvc,
		}
		if username != "" {
			client.username = username
			client.joined = true
			hub.RegisterClient(client)
		}
		go client.serve()
	}
}
