package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) PendingAnomaly(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "alert": h.svc.Monitor().Pending()})
}

func (h *Handlers) AnomalyLog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "log": h.svc.Monitor().Log()})
}

// AcknowledgeAnomaly closes the pending alert and records it in the feed
func (h *Handlers) AcknowledgeAnomaly(c *gin.Context) {
	n, err := h.svc.Monitor().Acknowledge()
	if err != nil {
		fail(c, "No pending alert", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notification": n})
}
