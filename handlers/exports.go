package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecowatch/export"
	"ecowatch/seed"
)

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handlers) ExportHouseholdUsage(c *gin.Context) {
	data, err := export.HouseholdUsageCSV(seed.WeeklyUsage())
	if err != nil {
		fail(c, "Failed to export usage", err)
		return
	}
	attachment(c, export.HouseholdUsageFilename, "text/csv;charset=utf-8", data)
}

func (h *Handlers) ExportCommunity(c *gin.Context) {
	data, err := export.CommunityJSON(seed.CommunityData())
	if err != nil {
		fail(c, "Failed to export community data", err)
		return
	}
	attachment(c, export.CommunityDataFilename, "application/json", data)
}

func (h *Handlers) ExportWorkbook(c *gin.Context) {
	data, err := export.Workbook(seed.WeeklyUsage(), h.store.Reports())
	if err != nil {
		fail(c, "Failed to build workbook", err)
		return
	}
	attachment(c, export.WorkbookFilename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handlers) ExportReportsGeoJSON(c *gin.Context) {
	data, err := export.ReportsGeoJSON(h.store.Reports())
	if err != nil {
		fail(c, "Failed to export reports", err)
		return
	}
	attachment(c, export.ReportsGeoJSONFilename, "application/geo+json", data)
}
