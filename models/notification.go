package models

import (
	"errors"
	"fmt"
)

// NotificationType discriminates the notification variants
type NotificationType string

const (
	NotificationInfo           NotificationType = "info"
	NotificationAlert          NotificationType = "alert"
	NotificationMaintenance    NotificationType = "maintenance"
	NotificationActionRequired NotificationType = "action_required"
)

// Valid reports whether t is a known notification type
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationAlert, NotificationMaintenance, NotificationActionRequired:
		return true
	}
	return false
}

// CarriesAnomaly reports whether notifications of this type may hold an anomaly payload
func (t NotificationType) CarriesAnomaly() bool {
	return t == NotificationAlert || t == NotificationActionRequired
}

// Severity of an anomaly
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Anomaly is the sensor payload attached to alert and action_required notifications
type Anomaly struct {
	Severity Severity `json:"severity,omitempty"`
	Sensor   string   `json:"sensor,omitempty"`
	Value    float64  `json:"value"`
}

// Notification is an entry in the household notification feed
type Notification struct {
	ID        int              `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
	Read      bool             `json:"read"`
	Anomaly   *Anomaly         `json:"anomaly,omitempty"`
}

var (
	ErrUnknownNotificationType = errors.New("unknown notification type")
	ErrUnexpectedAnomaly       = errors.New("anomaly payload is only allowed on alert and action_required notifications")
	ErrMessageRequired         = errors.New("message is required")
)

// Validate enforces the variant rules
func (n Notification) Validate() error {
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownNotificationType, n.Type)
	}
	if n.Message == "" {
		return ErrMessageRequired
	}
	if n.Anomaly != nil {
		if !n.Type.CarriesAnomaly() {
			return ErrUnexpectedAnomaly
		}
		if n.Anomaly.Severity != "" && !n.Anomaly.Severity.Valid() {
			return fmt.Errorf("unknown severity %q", n.Anomaly.Severity)
		}
	}
	return nil
}

// NewInfoNotification builds an unread info notification
func NewInfoNotification(message, timestamp string) Notification {
	return Notification{Type: NotificationInfo, Message: message, Timestamp: timestamp}
}

// NewMaintenanceNotification builds an unread maintenance notification
func NewMaintenanceNotification(message, timestamp string) Notification {
	return Notification{Type: NotificationMaintenance, Message: message, Timestamp: timestamp}
}

// NewAlertNotification builds an unread alert carrying the anomaly
func NewAlertNotification(message, timestamp string, anomaly Anomaly) Notification {
	return Notification{Type: NotificationAlert, Message: message, Timestamp: timestamp, Anomaly: &anomaly}
}

// NewActionRequiredNotification builds an unread action_required notification
func NewActionRequiredNotification(message, timestamp string, anomaly *Anomaly) Notification {
	n := Notification{Type: NotificationActionRequired, Message: message, Timestamp: timestamp}
	if anomaly != nil {
		a := *anomaly
		n.Anomaly = &a
	}
	return n
}

// NotificationPatch is a partial update; nil fields are left unchanged
type NotificationPatch struct {
	Read *bool `json:"read,omitempty"`
}
