package models

import "time"

// Event types pushed to feed subscribers and the message broker
const (
	EventReportCreated       = "report.created"
	EventReportStatusChanged = "report.status_changed"
	EventNotificationAdded   = "notification.added"
	EventNotificationUpdated = "notification.updated"
	EventMaintenanceChanged  = "maintenance.changed"
	EventAnomalyPending      = "anomaly.pending"
)

// BroadcastMessage is the envelope sent to websocket clients
type BroadcastMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ReportEvent is published to the broker for tagged officials
type ReportEvent struct {
	EventID     string       `json:"event_id"`
	Type        string       `json:"type"`
	ReportID    string       `json:"report_id"`
	Status      ReportStatus `json:"status"`
	Severity    int          `json:"severity"`
	Address     string       `json:"address"`
	OfficialIDs []string     `json:"official_ids"`
	Author      string       `json:"author,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at"`
}
