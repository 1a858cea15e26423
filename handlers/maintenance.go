package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecowatch/models"
)

func (h *Handlers) ListMaintenanceRequests(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": h.store.MaintenanceRequests()})
}

func (h *Handlers) FileMaintenanceRequest(c *gin.Context) {
	var in models.MaintenanceRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	req, err := h.store.FileMaintenanceRequest(in)
	if err != nil {
		fail(c, "Invalid maintenance request", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Maintenance request filed", "request": req})
}

type scheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *Handlers) ScheduleMaintenance(c *gin.Context) {
	var body scheduleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	req, n, err := h.store.ScheduleMaintenance(c.Param("id"), body.Date, body.Time)
	if err != nil {
		fail(c, "Could not schedule maintenance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": req, "notification": n})
}

func (h *Handlers) ResolveMaintenance(c *gin.Context) {
	req, err := h.store.ResolveMaintenance(c.Param("id"))
	if err != nil {
		fail(c, "Could not resolve maintenance request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": req})
}

func (h *Handlers) CancelMaintenance(c *gin.Context) {
	req, err := h.store.CancelMaintenance(c.Param("id"))
	if err != nil {
		fail(c, "Could not cancel maintenance request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": req})
}
