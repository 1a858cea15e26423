package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	geojson "github.com/paulmach/go.geojson"

	"ecowatch/models"
)

const (
	HouseholdUsageFilename = "household_weekly_usage.csv"
	CommunityDataFilename  = "community_data.json"
	WorkbookFilename       = "ecowatch_reports.xlsx"
	ReportsGeoJSONFilename = "pollution_reports.geojson"
)

// HouseholdUsageHeader is the first line of the weekly usage CSV
var HouseholdUsageHeader = []string{"date", "usage_liters", "quality_index"}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// HouseholdUsageCSV renders weekly usage, one row per day
func HouseholdUsageCSV(points []models.HistoricalDataPoint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(HouseholdUsageHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range points {
		if err := w.Write([]string{p.Date, number(p.Usage), number(p.Quality)}); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", p.Date, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CommunityJSON renders the community dump with two-space indentation
func CommunityJSON(data models.CommunityData) ([]byte, error) {
	if data.MaintenanceTasks == nil {
		data.MaintenanceTasks = []models.MaintenanceTask{}
	}
	if data.PollutionHotspots == nil {
		data.PollutionHotspots = []models.PollutionHotspot{}
	}
	if data.HistoricalWaterQuality == nil {
		data.HistoricalWaterQuality = []models.HistoricalDataPoint{}
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal community data: %w", err)
	}
	return out, nil
}

// ReportsGeoJSON renders each report as a point feature
func ReportsGeoJSON(reports []models.PollutionReport) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, r := range reports {
		f := geojson.NewPointFeature([]float64{r.Location.Longitude, r.Location.Latitude})
		f.ID = r.ID
		f.SetProperty("id", r.ID)
		f.SetProperty("status", string(r.CurrentStatus()))
		f.SetProperty("severity", r.Severity)
		f.SetProperty("address", r.Location.Address)
		f.SetProperty("comment", r.Comment)
		f.SetProperty("timestamp", r.Timestamp)
		f.SetProperty("updates", len(r.Updates))
		if r.SensorSnapshot != nil {
			f.SetProperty("tds", r.SensorSnapshot.TDS)
			f.SetProperty("turbidity", r.SensorSnapshot.Turbidity)
		}
		fc.AddFeature(f)
	}
	out, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return out, nil
}
