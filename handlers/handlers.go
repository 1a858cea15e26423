package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"ecowatch/anomaly"
	"ecowatch/composer"
	"ecowatch/gemini"
	"ecowatch/geo"
	"ecowatch/models"
	"ecowatch/savings"
	"ecowatch/service"
	"ecowatch/state"
	"ecowatch/workflow"
)

// Advisor is the generative-AI boundary used by the household dashboard
type Advisor interface {
	WaterReuseInsight(ctx context.Context, m models.WaterQualityMetrics) (models.AIRecommendation, error)
	PredictiveMaintenanceAlert(ctx context.Context, h models.SystemHealthData) (models.PredictiveAlert, error)
}

// Handlers serves the dashboard API
type Handlers struct {
	svc     *service.Service
	store   *state.Store
	advisor Advisor
}

func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{
		svc:     svc,
		store:   svc.Store(),
		advisor: svc,
	}
}

// Register mounts every route on api. aiLimit guards the model endpoints.
func (h *Handlers) Register(api *gin.RouterGroup, aiLimit gin.HandlerFunc) {
	api.GET("/reports", h.ListReports)
	api.POST("/reports", h.CreateReport)
	api.GET("/reports/:id", h.GetReport)
	api.GET("/reports/:id/view", h.ViewReport)
	api.GET("/reports/:id/nearby", h.NearbyReports)
	api.POST("/reports/:id/updates", h.UpdateReportStatus)
	api.GET("/officials", h.ListOfficials)
	api.POST("/annotations/box", h.ReplayBox)

	api.GET("/notifications", h.ListNotifications)
	api.POST("/notifications", h.CreateNotification)
	api.PATCH("/notifications/:id", h.PatchNotification)
	api.GET("/notifications/:id/issue-draft", h.IssueDraft)

	api.GET("/maintenance-requests", h.ListMaintenanceRequests)
	api.POST("/maintenance-requests", h.FileMaintenanceRequest)
	api.POST("/maintenance-requests/:id/schedule", h.ScheduleMaintenance)
	api.POST("/maintenance-requests/:id/resolve", h.ResolveMaintenance)
	api.POST("/maintenance-requests/:id/cancel", h.CancelMaintenance)

	api.GET("/anomalies/pending", h.PendingAnomaly)
	api.GET("/anomalies/log", h.AnomalyLog)
	api.POST("/anomalies/ack", h.AcknowledgeAnomaly)

	api.GET("/household/overview", h.HouseholdOverview)
	api.GET("/savings", h.Savings)
	api.GET("/conservation/simulate", h.SimulateConservation)

	ai := api.Group("/ai")
	if aiLimit != nil {
		ai.Use(aiLimit)
	}
	ai.POST("/water-insight", h.WaterInsight)
	ai.POST("/predictive-maintenance", h.PredictiveMaintenance)

	api.GET("/exports/household-usage.csv", h.ExportHouseholdUsage)
	api.GET("/exports/community.json", h.ExportCommunity)
	api.GET("/exports/workbook.xlsx", h.ExportWorkbook)
	api.GET("/exports/reports.geojson", h.ExportReportsGeoJSON)

	api.GET("/feed/listen", h.ListenFeed)
}

// HealthCheck reports liveness and the state of optional channels
func (h *Handlers) HealthCheck(c *gin.Context) {
	clients := 0
	if hub := h.svc.Hub(); hub != nil {
		clients = hub.Clients()
	}
	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service":          "ecowatch",
		"reports":          len(snap.Reports),
		"notifications":    len(snap.Notifications),
		"feed_clients":     clients,
		"broker_connected": h.svc.PublisherConnected(),
		"anomaly_pending":  h.svc.Monitor().Pending() != nil,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, state.ErrReportNotFound),
		errors.Is(err, state.ErrNotificationNotFound),
		errors.Is(err, state.ErrMaintenanceRequestNotFound),
		errors.Is(err, anomaly.ErrNoPendingAlert):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrTransitionNotAllowed),
		errors.Is(err, state.ErrMaintenanceTerminal):
		return http.StatusConflict
	case errors.Is(err, gemini.ErrAIDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, composer.ErrImageRequired),
		errors.Is(err, composer.ErrSeverityOutOfRange),
		errors.Is(err, composer.ErrUnknownOfficial),
		errors.Is(err, workflow.ErrUnknownStatus),
		errors.Is(err, state.ErrInvalidSchedule),
		errors.Is(err, models.ErrIssueTypeRequired),
		errors.Is(err, models.ErrLocationRequired),
		errors.Is(err, models.ErrDetailsRequired),
		errors.Is(err, models.ErrInvalidUrgency),
		errors.Is(err, models.ErrUnknownNotificationType),
		errors.Is(err, models.ErrUnexpectedAnomaly),
		errors.Is(err, models.ErrMessageRequired),
		errors.Is(err, savings.ErrUnknownPeriod),
		errors.Is(err, savings.ErrUnknownMode),
		errors.Is(err, savings.ErrNegativeInput),
		errors.Is(err, geo.ErrInvalidRadius):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Errorf("%s %s: %s", c.Request.Method, c.FullPath(), message)
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
