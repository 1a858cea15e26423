package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"ecowatch/gemini"
	"ecowatch/savings"
	"ecowatch/seed"
)

func (h *Handlers) HouseholdOverview(c *gin.Context) {
	m := seed.HouseholdMetrics()
	progress, err := savings.Track(m.WaterSaved, savings.PeriodMonth, savings.ModeLitres)
	if err != nil {
		fail(c, "Failed to compute savings", err)
		return
	}

	unread := 0
	for _, n := range h.store.Notifications() {
		if !n.Read {
			unread++
		}
	}
	open := 0
	for _, r := range h.store.MaintenanceRequests() {
		if !r.Status.Terminal() {
			open++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"metrics":    m,
		"indicators": savings.Indicators(m.WaterQuality),
		"tanks": gin.H{
			"collection_percent": m.TankLevels.Collection.Percent(),
			"storage_percent":    m.TankLevels.Storage.Percent(),
		},
		"savings":                   progress,
		"weekly_usage":              seed.WeeklyUsage(),
		"unread_notifications":      unread,
		"open_maintenance_requests": open,
	})
}

func (h *Handlers) Savings(c *gin.Context) {
	m := seed.HouseholdMetrics()
	progress, err := savings.Track(m.WaterSaved, savings.Period(c.Query("period")), savings.Mode(c.Query("mode")))
	if err != nil {
		fail(c, "Invalid savings query", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "progress": progress})
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (h *Handlers) SimulateConservation(c *gin.Context) {
	population, err := intQuery(c, "population", savings.DefaultPopulation)
	if err != nil {
		badRequest(c, "Invalid population", err)
		return
	}
	lpcd, err := intQuery(c, "lpcd", savings.DefaultLPCD)
	if err != nil {
		badRequest(c, "Invalid lpcd", err)
		return
	}

	sim, err := savings.Simulate(population, lpcd)
	if err != nil {
		fail(c, "Invalid simulation input", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "simulation": sim, "examples": seed.ConservationData()})
}

// aiFailed maps model failures: disabled is 503, anything else a generic 502
func aiFailed(c *gin.Context, err error) {
	if errors.Is(err, gemini.ErrAIDisabled) {
		fail(c, "AI insights are not configured", err)
		return
	}
	log.WithError(err).Warn("AI request failed")
	c.JSON(http.StatusBadGateway, gin.H{
		"success": false,
		"message": "The AI service could not produce an insight. Please try again.",
	})
}

// WaterInsight grades the posted metrics, or the household's current
// readings when the body is empty.
func (h *Handlers) WaterInsight(c *gin.Context) {
	m := seed.HouseholdMetrics().WaterQuality
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&m); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}
	}

	rec, err := h.advisor.WaterReuseInsight(c.Request.Context(), m)
	if err != nil {
		aiFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendation": rec})
}

func (h *Handlers) PredictiveMaintenance(c *gin.Context) {
	health := seed.SystemHealth()
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&health); err != nil {
			badRequest(c, "Invalid request body", err)
			return
		}
	}

	alert, err := h.advisor.PredictiveMaintenanceAlert(c.Request.Context(), health)
	if err != nil {
		aiFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "alert": alert})
}
