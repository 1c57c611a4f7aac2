package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tablets on the restaurant LAN connect from arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades the request to a websocket and pumps hub events to the
// client until it disconnects
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.WithError(err).Warn("Websocket upgrade failed")
			return
		}

		id, events, cancel := h.Subscribe(32)
		log.WithField("client", id).Debug("Websocket client connected")

		done := make(chan struct{})
		go func() {
			// The read pump only detects the client going away; viewers
			// never send application messages.
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		defer func() {
			cancel()
			_ = conn.Close()
			log.WithField("client", id).Debug("Websocket client disconnected")
		}()

		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-done:
				return
			case <-ping.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case ev, ok := <-events:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			}
		}
	}
}
