package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ecowatch/annotation"
	"ecowatch/composer"
	"ecowatch/geo"
	"ecowatch/models"
	"ecowatch/state"
	"ecowatch/workflow"
)

func (h *Handlers) ListReports(c *gin.Context) {
	reports := h.store.Reports()
	if status := c.Query("status"); status != "" {
		filtered := []models.PollutionReport{}
		for _, r := range reports {
			if string(r.CurrentStatus()) == status {
				filtered = append(filtered, r)
			}
		}
		reports = filtered
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(reports), "reports": reports})
}

func (h *Handlers) GetReport(c *gin.Context) {
	id := c.Param("id")
	report, ok := h.store.Report(id)
	if !ok {
		fail(c, "Report not found", state.ErrReportNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// ViewReport is the detail view: the report, its derived status and the
// bounding box as percentages of the image frame.
func (h *Handlers) ViewReport(c *gin.Context) {
	report, ok := h.store.Report(c.Param("id"))
	if !ok {
		fail(c, "Report not found", state.ErrReportNotFound)
		return
	}
	report.Status = report.CurrentStatus()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"view": models.ReportView{
			PollutionReport: report,
			BoxPercent:      annotation.Project(report.BoundingBox),
		},
	})
}

func (h *Handlers) NearbyReports(c *gin.Context) {
	radius := geo.DefaultRadiusMeters
	if raw := c.Query("radius_m"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "Invalid radius_m", err)
			return
		}
		radius = v
	}

	matches, found, err := geo.NearbyReport(h.store.Reports(), c.Param("id"), radius)
	if err != nil {
		fail(c, "Invalid radius", err)
		return
	}
	if !found {
		fail(c, "Report not found", state.ErrReportNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "radius_m": radius, "count": len(matches), "matches": matches})
}

func (h *Handlers) CreateReport(c *gin.Context) {
	var req composer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	report, err := h.svc.SubmitReport(req)
	if err != nil {
		badRequest(c, "Invalid report", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Report submitted", "report": report})
}

func (h *Handlers) UpdateReportStatus(c *gin.Context) {
	var in workflow.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	report, err := h.svc.UpdateReportStatus(c.Param("id"), in)
	if err != nil {
		fail(c, "Status update rejected", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated", "report": report})
}

func (h *Handlers) ListOfficials(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "officials": h.store.Officials()})
}

type replayRequest struct {
	Events []annotation.Event `json:"events"`
}

// ReplayBox runs recorded pointer events through the annotator. The box is
// null when the drag was too small.
func (h *Handlers) ReplayBox(c *gin.Context) {
	var req replayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	for _, e := range req.Events {
		switch e.Kind {
		case annotation.EventDown, annotation.EventMove, annotation.EventUp, annotation.EventLeave:
		default:
			badRequest(c, "Invalid pointer event", errors.New("unknown event kind "+strconv.Quote(string(e.Kind))))
			return
		}
	}
	box := annotation.Replay(req.Events)
	c.JSON(http.StatusOK, gin.H{"success": true, "bounding_box": box, "box_percent": annotation.Project(box)})
}
