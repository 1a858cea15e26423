package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ecowatch/maintenance"
	"ecowatch/models"
	"ecowatch/state"
)

func (h *Handlers) ListNotifications(c *gin.Context) {
	feed := h.store.Notifications()
	unread := 0
	for _, n := range feed {
		if !n.Read {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unread": unread, "notifications": feed})
}

type notificationRequest struct {
	Type      models.NotificationType `json:"type" binding:"required"`
	Message   string                  `json:"message" binding:"required"`
	Timestamp string                  `json:"timestamp"`
	Anomaly   *models.Anomaly         `json:"anomaly"`
}

func (h *Handlers) CreateNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if req.Timestamp == "" {
		req.Timestamp = state.JustNow
	}

	n, err := h.store.AddNotification(models.Notification{
		Type:      req.Type,
		Message:   req.Message,
		Timestamp: req.Timestamp,
		Anomaly:   req.Anomaly,
	})
	if err != nil {
		fail(c, "Invalid notification", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "notification": n})
}

func notificationID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid notification id", fmt.Errorf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}

func (h *Handlers) PatchNotification(c *gin.Context) {
	id, ok := notificationID(c)
	if !ok {
		return
	}
	var patch models.NotificationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	n, err := h.store.UpdateNotification(id, patch)
	if err != nil {
		fail(c, "Notification not found", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notification": n})
}

// IssueDraft prefills the maintenance form from a notification
func (h *Handlers) IssueDraft(c *gin.Context) {
	id, ok := notificationID(c)
	if !ok {
		return
	}
	n, found := h.store.Notification(id)
	if !found {
		fail(c, "Notification not found", state.ErrNotificationNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "draft": maintenance.Prefill(n)})
}
