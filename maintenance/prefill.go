package maintenance

import (
	"strings"

	"ecowatch/models"
)

// IssueTypes offered on the household issue form
var IssueTypes = []string{
	"Leak Detected",
	"Strange Noise",
	"Low Pressure",
	"System Offline / No Power",
	"Bad Odor / Water Color",
	"Other",
}

// FallbackLocations are suggested when the sensor is not recognised
var FallbackLocations = []string{
	"Near outdoor pump",
	"Filter housing",
	"Chlorination unit",
	"Aeration module",
	"Storage tank",
}

type sensorProfile struct {
	key         string
	issueType   string
	urgency     models.Urgency
	suggestions []string
}

// checked in this order; "do" is last because other names may contain it
var sensorProfiles = []sensorProfile{
	{"turbidity", "Filter Clog / High Turbidity", models.UrgencyMedium, []string{"Filter housing", "Intake mesh", "Near outdoor pump"}},
	{"tds", "Bad Odor / Water Color", models.UrgencyMedium, []string{"Storage tank", "Distribution line", "Kitchen sink"}},
	{"orp", "Disinfection / ORP Spike", models.UrgencyHigh, []string{"Chlorination unit", "Dosing line", "Contact chamber"}},
	{"do", "Low Dissolved Oxygen", models.UrgencyHigh, []string{"Aeration module", "Return line", "Settling tank"}},
}

// Draft is the issue form prefilled from a notification
type Draft struct {
	NotificationID      int                    `json:"notification_id"`
	NotificationMessage string                 `json:"notification_message"`
	DetectedSensor      string                 `json:"detected_sensor,omitempty"`
	IssueType           string                 `json:"issue_type"`
	Urgency             models.Urgency         `json:"urgency"`
	Details             string                 `json:"details"`
	LocationSuggestions []string               `json:"location_suggestions"`
	IssueTypes          []string               `json:"issue_types"`
	AnomalyContext      *models.AnomalyContext `json:"anomaly_context,omitempty"`
}

// UrgencyForSeverity maps an anomaly severity onto a request urgency
func UrgencyForSeverity(s models.Severity) models.Urgency {
	switch s {
	case models.SeverityLow:
		return models.UrgencyLow
	case models.SeverityHigh, models.SeverityCritical:
		return models.UrgencyHigh
	default:
		return models.UrgencyMedium
	}
}

func detect(sensor string) *sensorProfile {
	s := strings.ToLower(sensor)
	if s == "" {
		return nil
	}
	for i := range sensorProfiles {
		if strings.Contains(s, sensorProfiles[i].key) {
			return &sensorProfiles[i]
		}
	}
	return nil
}

// Prefill derives the issue form defaults from a notification
func Prefill(n models.Notification) Draft {
	d := Draft{
		NotificationID:      n.ID,
		NotificationMessage: n.Message,
		Details:             n.Message,
		Urgency:             models.UrgencyMedium,
		LocationSuggestions: append([]string(nil), FallbackLocations...),
		IssueTypes:          append([]string(nil), IssueTypes...),
	}
	if n.Anomaly == nil {
		return d
	}

	d.AnomalyContext = &models.AnomalyContext{Sensor: n.Anomaly.Sensor, Value: n.Anomaly.Value}
	d.Urgency = UrgencyForSeverity(n.Anomaly.Severity)
	if p := detect(n.Anomaly.Sensor); p != nil {
		d.DetectedSensor = p.key
		d.IssueType = p.issueType
		d.Urgency = p.urgency
		d.LocationSuggestions = append([]string(nil), p.suggestions...)
	}
	return d
}

// Input turns the draft into a filing request, taking the location and any
// overrides from the household.
func (d Draft) Input(location string) models.MaintenanceRequestInput {
	id := d.NotificationID
	return models.MaintenanceRequestInput{
		IssueType:            d.IssueType,
		Urgency:              d.Urgency,
		Location:             location,
		Details:              d.Details,
		OriginNotificationID: &id,
	}
}
