package livefeed

import (
	"log/slog"
	"net/http"
	"time"

	"tourdesk/middleware"
	"tourdesk/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handler upgrades an admin connection. Browsers cannot set headers on a
// WebSocket request, so the JWT travels in the token query parameter.
func Handler(hub *Hub, auth *middleware.Auth, allowedOrigins []string) httprouter.Handle {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || utils.Contains(allowedOrigins, "*") || utils.Contains(allowedOrigins, origin)
		},
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if _, err := auth.ValidateJWT(r.URL.Query().Get("token")); err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
			return
		}
		client := &Client{
			Conn: conn,
			Send: make(chan []byte, 64),
			Room: BookingsRoom,
		}

		hub.Register(client)
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the connection going away; admins never send
// anything on the feed.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
