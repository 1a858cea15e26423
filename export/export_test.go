package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ecowatch/models"
)

var week = []models.HistoricalDataPoint{
	{Date: "Mon", Usage: 180, Quality: 92},
	{Date: "Tue", Usage: 210.5, Quality: 91},
}

var reports = []models.PollutionReport{
	{
		ID:              "PR-001",
		Timestamp:       "3 days ago",
		ReporterID:      "user-123",
		Severity:        4,
		Location:        models.Location{Latitude: 12.9716, Longitude: 77.5946, Address: "Creek outlet, Sector D"},
		TaggedOfficials: []models.Official{{ID: "off2", Name: "Shri. Vikram Singh"}, {ID: "off3", Name: "Anjali Menon"}},
		SensorSnapshot:  &models.SensorSnapshot{TDS: 850, Turbidity: 25},
		Status:          models.StatusInProgress,
		Updates:         []models.ReportUpdate{{Status: models.StatusInProgress}},
	},
}

func TestHouseholdUsageCSV(t *testing.T) {
	out, err := HouseholdUsageCSV(week)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	assert.Equal(t, []string{"date,usage_liters,quality_index", "Mon,180,92", "Tue,210.5,91"}, lines)
}

func TestHouseholdUsageCSVEmpty(t *testing.T) {
	out, err := HouseholdUsageCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "date,usage_liters,quality_index\n", string(out))
}

func TestCommunityJSON(t *testing.T) {
	out, err := CommunityJSON(models.CommunityData{
		Overview: models.CommunityOverview{TotalHouseholds: 128, WaterSaved: 45000, ActiveAlerts: 3},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "{\n  \"overview\": {\n    \"totalHouseholds\": 128"))

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	for _, key := range []string{"overview", "maintenanceTasks", "pollutionHotspots", "historicalWaterQuality"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, "[]", string(decoded["maintenanceTasks"]))
}

func TestReportsGeoJSON(t *testing.T) {
	out, err := ReportsGeoJSON(reports)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(out)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.True(t, f.Geometry.IsPoint())
	assert.Equal(t, []float64{77.5946, 12.9716}, f.Geometry.Point)
	assert.Equal(t, "In Progress", f.Properties["status"])
	assert.Equal(t, 850.0, f.Properties["tds"])
}

func TestWorkbook(t *testing.T) {
	out, err := Workbook(week, reports)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{usageSheet, reportsSheet}, f.GetSheetList())

	v, err := f.GetCellValue(usageSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "date", v)
	v, err = f.GetCellValue(usageSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "210.5", v)

	v, err = f.GetCellValue(reportsSheet, "I2")
	require.NoError(t, err)
	assert.Equal(t, "Shri. Vikram Singh, Anjali Menon", v)
	v, err = f.GetCellValue(reportsSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "In Progress", v)
}
