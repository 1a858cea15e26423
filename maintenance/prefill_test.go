package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecowatch/models"
)

func TestUrgencyForSeverity(t *testing.T) {
	assert.Equal(t, models.UrgencyLow, UrgencyForSeverity(models.SeverityLow))
	assert.Equal(t, models.UrgencyMedium, UrgencyForSeverity(models.SeverityMedium))
	assert.Equal(t, models.UrgencyHigh, UrgencyForSeverity(models.SeverityHigh))
	assert.Equal(t, models.UrgencyHigh, UrgencyForSeverity(models.SeverityCritical))
	assert.Equal(t, models.UrgencyMedium, UrgencyForSeverity(""))
}

func TestPrefillFromSensor(t *testing.T) {
	tests := []struct {
		sensor    string
		issueType string
		urgency   models.Urgency
		first     string
	}{
		{"turbidity", "Filter Clog / High Turbidity", models.UrgencyMedium, "Filter housing"},
		{"TDS", "Bad Odor / Water Color", models.UrgencyMedium, "Storage tank"},
		{"ORP", "Disinfection / ORP Spike", models.UrgencyHigh, "Chlorination unit"},
		{"DO", "Low Dissolved Oxygen", models.UrgencyHigh, "Aeration module"},
	}
	for _, tt := range tests {
		t.Run(tt.sensor, func(t *testing.T) {
			n := models.NewAlertNotification("x", "now", models.Anomaly{Severity: models.SeverityLow, Sensor: tt.sensor, Value: 1})
			d := Prefill(n)
			assert.Equal(t, tt.issueType, d.IssueType)
			assert.Equal(t, tt.urgency, d.Urgency)
			assert.Equal(t, tt.first, d.LocationSuggestions[0])
		})
	}
}

func TestPrefillUnknownSensorUsesSeverity(t *testing.T) {
	n := models.NewAlertNotification("pressure", "now", models.Anomaly{Severity: models.SeverityCritical, Sensor: "pressure", Value: 40})
	n.ID = 9
	d := Prefill(n)
	assert.Equal(t, "", d.IssueType)
	assert.Equal(t, models.UrgencyHigh, d.Urgency)
	assert.Equal(t, FallbackLocations, d.LocationSuggestions)
	assert.Equal(t, &models.AnomalyContext{Sensor: "pressure", Value: 40}, d.AnomalyContext)

	in := d.Input("Storage tank")
	assert.Equal(t, 9, *in.OriginNotificationID)
	assert.Equal(t, "pressure", in.Details)
}

func TestPrefillWithoutAnomaly(t *testing.T) {
	d := Prefill(models.NewActionRequiredNotification("Anomaly Detected: high pump pressure", "15 minutes ago", nil))
	assert.Equal(t, models.UrgencyMedium, d.Urgency)
	assert.Nil(t, d.AnomalyContext)
	assert.Equal(t, "Anomaly Detected: high pump pressure", d.Details)
	assert.Len(t, d.IssueTypes, 6)
}
