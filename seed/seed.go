// Package seed holds the demo dataset the dashboard starts with.
package seed

import (
	"ecowatch/models"
	"ecowatch/state"
)

// Officials is the built-in officials directory
func Officials() []models.Official {
	return []models.Official{
		{ID: "off1", Name: "Smt. Radha Kumari", Title: "Sarpanch, Sector B"},
		{ID: "off2", Name: "Shri. Vikram Singh", Title: "Ward Officer, Sector D"},
		{ID: "off3", Name: "Anjali Menon", Title: "Environmental Officer"},
	}
}

// Reports are the reports already on file
func Reports(officials []models.Official) []models.PollutionReport {
	byID := map[string]models.Official{}
	for _, o := range officials {
		byID[o.ID] = o
	}
	pick := func(ids ...string) []models.Official {
		out := []models.Official{}
		for _, id := range ids {
			if o, ok := byID[id]; ok {
				out = append(out, o)
			}
		}
		return out
	}

	return []models.PollutionReport{
		{
			ID:              "PR-001",
			Timestamp:       "3 days ago",
			ReporterID:      "user-123",
			ImageURL:        "https://picsum.photos/seed/pr001/800/600",
			Comment:         "Industrial waste seems to be illegally dumped near the creek outlet. The water has a strange color.",
			Severity:        4,
			Location:        models.Location{Latitude: 12.9716, Longitude: 77.5946, Address: "Creek outlet, Sector D"},
			TaggedOfficials: pick("off2", "off3"),
			SensorSnapshot:  &models.SensorSnapshot{TDS: 850, Turbidity: 25},
			Status:          models.StatusInProgress,
			Updates: []models.ReportUpdate{
				{Timestamp: "2 days ago", Status: models.StatusAcknowledged, Author: "Shri. Vikram Singh", Notes: "Team has been dispatched to investigate."},
				{Timestamp: "1 day ago", Status: models.StatusInProgress, Author: "Shri. Vikram Singh", Notes: "Initial cleanup has started. Water samples collected for testing."},
			},
		},
		{
			ID:              "PR-002",
			Timestamp:       "1 week ago",
			ReporterID:      "user-456",
			ImageURL:        "https://picsum.photos/seed/pr002/800/600",
			Comment:         "Large amount of plastic bottles and bags floating on the water surface.",
			Severity:        3,
			Location:        models.Location{Latitude: 12.9720, Longitude: 77.5950, Address: "Wetland Park, Sector C"},
			TaggedOfficials: pick("off1"),
			Status:          models.StatusResolved,
			Updates: []models.ReportUpdate{
				{Timestamp: "6 days ago", Status: models.StatusAcknowledged, Author: "Smt. Radha Kumari"},
				{Timestamp: "5 days ago", Status: models.StatusInProgress, Author: "Smt. Radha Kumari", Notes: "Community cleanup drive organized."},
				{Timestamp: "4 days ago", Status: models.StatusResolved, Author: "Smt. Radha Kumari", Notes: "Area has been cleared. Thank you for reporting.", EvidenceURL: "https://picsum.photos/seed/resolved002/800/600"},
			},
		},
	}
}

// Notifications is the household feed, newest first
func Notifications() []models.Notification {
	return []models.Notification{
		{ID: 4, Type: models.NotificationActionRequired, Message: "Anomaly Detected: The system reports unusually high pump pressure. Please check for blockages.", Timestamp: "15 minutes ago"},
		{ID: 1, Type: models.NotificationInfo, Message: "Filter backwash cycle completed successfully.", Timestamp: "2 hours ago", Read: true},
		{ID: 2, Type: models.NotificationMaintenance, Message: "UV lamp replacement due in 7 days.", Timestamp: "1 day ago"},
		{ID: 3, Type: models.NotificationAlert, Message: "High turbidity detected. System is flushing. Reuse is paused.", Timestamp: "3 days ago", Read: true},
	}
}

// MaintenanceRequests already filed by the household
func MaintenanceRequests() []models.MaintenanceRequest {
	return []models.MaintenanceRequest{
		{
			ID:          "MR-001",
			HouseholdID: state.CurrentUser,
			ReportedAt:  "2 days ago",
			IssueType:   "Leak Detected",
			Urgency:     models.UrgencyHigh,
			Location:    "Near the outdoor pump unit",
			Details:     "There is a small but steady drip of water coming from one of the pipe connections on the main pump.",
			Status:      models.MaintenancePending,
		},
	}
}

// State builds the initial application state around officials. A nil
// directory uses Officials().
func State(officials []models.Official) state.State {
	if officials == nil {
		officials = Officials()
	}
	return state.State{
		Reports:             Reports(officials),
		MaintenanceRequests: MaintenanceRequests(),
		Notifications:       Notifications(),
		Officials:           officials,
	}
}
