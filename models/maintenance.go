package models

import (
	"errors"
	"strings"
	"time"
)

// Urgency of a maintenance request
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Valid reports whether u is a known urgency
func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

// MaintenanceStatus is the lifecycle state of a maintenance request
type MaintenanceStatus string

const (
	MaintenancePending   MaintenanceStatus = "Pending"
	MaintenanceScheduled MaintenanceStatus = "Scheduled"
	MaintenanceResolved  MaintenanceStatus = "Resolved"
	MaintenanceCancelled MaintenanceStatus = "Cancelled"
)

// Terminal reports whether no further transitions are allowed
func (s MaintenanceStatus) Terminal() bool {
	return s == MaintenanceResolved || s == MaintenanceCancelled
}

// AnomalyContext links a request back to the sensor reading that triggered it
type AnomalyContext struct {
	Sensor string  `json:"sensor,omitempty"`
	Value  float64 `json:"value"`
}

// MaintenanceRequest is a household request for a technician visit
type MaintenanceRequest struct {
	ID                   string            `json:"id"`
	HouseholdID          string            `json:"household_id"`
	ReportedAt           string            `json:"reported_at"`
	CreatedAt            time.Time         `json:"created_at"`
	IssueType            string            `json:"issue_type"`
	Urgency              Urgency           `json:"urgency"`
	Location             string            `json:"location"`
	Address              string            `json:"address,omitempty"`
	Latitude             *float64          `json:"latitude,omitempty"`
	Longitude            *float64          `json:"longitude,omitempty"`
	Details              string            `json:"details"`
	MediaURL             string            `json:"media_url,omitempty"`
	Status               MaintenanceStatus `json:"status"`
	ScheduledFor         string            `json:"scheduled_for,omitempty"`
	OriginNotificationID *int              `json:"origin_notification_id,omitempty"`
	AnomalyContext       *AnomalyContext   `json:"anomaly_context,omitempty"`
}

// MaintenanceRequestInput is the form submitted when filing a request
type MaintenanceRequestInput struct {
	IssueType            string   `json:"issue_type"`
	Urgency              Urgency  `json:"urgency"`
	Location             string   `json:"location"`
	Address              string   `json:"address,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	Details              string   `json:"details"`
	MediaURL             string   `json:"media_url,omitempty"`
	OriginNotificationID *int     `json:"origin_notification_id,omitempty"`
}

var (
	ErrIssueTypeRequired = errors.New("issue type is required")
	ErrLocationRequired  = errors.New("location is required")
	ErrDetailsRequired   = errors.New("details are required")
	ErrInvalidUrgency    = errors.New("urgency must be Low, Medium or High")
)

// Validate checks the required fields. An empty urgency is accepted and
// defaults to Medium when the request is filed.
func (in MaintenanceRequestInput) Validate() error {
	if strings.TrimSpace(in.IssueType) == "" {
		return ErrIssueTypeRequired
	}
	if strings.TrimSpace(in.Location) == "" {
		return ErrLocationRequired
	}
	if strings.TrimSpace(in.Details) == "" {
		return ErrDetailsRequired
	}
	if in.Urgency != "" && !in.Urgency.Valid() {
		return ErrInvalidUrgency
	}
	return nil
}
