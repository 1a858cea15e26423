package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ListenFeed streams store events over a websocket
func (h *Handlers) ListenFeed(c *gin.Context) {
	hub := h.svc.Hub()
	if hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Live feed unavailable"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to upgrade feed connection")
		return
	}
	if hub.Attach(conn) != nil {
		log.Debug("Feed connection established")
	}
}
