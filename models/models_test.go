package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentStatus(t *testing.T) {
	r := PollutionReport{Status: StatusSubmitted}
	assert.Equal(t, StatusSubmitted, r.CurrentStatus())

	r.Updates = []ReportUpdate{{Status: StatusAcknowledged}, {Status: StatusResolved}}
	assert.Equal(t, StatusResolved, r.CurrentStatus())
}

func TestCloneIsDeep(t *testing.T) {
	r := PollutionReport{
		ID:              "PR-001",
		BoundingBox:     &BoundingBox{X: 1, Y: 2, Width: 10, Height: 10},
		TaggedOfficials: []Official{{ID: "off1"}},
		Updates:         []ReportUpdate{{Status: StatusAcknowledged}},
	}
	c := r.Clone()
	c.BoundingBox.X = 99
	c.TaggedOfficials[0].ID = "changed"
	c.Updates[0].Status = StatusDuplicate

	assert.Equal(t, 1.0, r.BoundingBox.X)
	assert.Equal(t, "off1", r.TaggedOfficials[0].ID)
	assert.Equal(t, StatusAcknowledged, r.Updates[0].Status)
}

func TestBoundingBoxValid(t *testing.T) {
	assert.True(t, BoundingBox{Width: 5, Height: 5}.Valid())
	assert.False(t, BoundingBox{Width: 4.9, Height: 50}.Valid())
	assert.False(t, BoundingBox{Width: 50, Height: 4}.Valid())
	assert.False(t, BoundingBox{X: -1, Width: 50, Height: 50}.Valid())
}

func TestReportStatusValid(t *testing.T) {
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, ReportStatus("Closed").Valid())
}

func TestNotificationValidate(t *testing.T) {
	tests := []struct {
		name    string
		n       Notification
		wantErr error
	}{
		{"info", NewInfoNotification("backwash done", "Just now"), nil},
		{"alert with anomaly", NewAlertNotification("too high", "Just now", Anomaly{Severity: SeverityHigh, Sensor: "TDS", Value: 700}), nil},
		{"action required without anomaly", NewActionRequiredNotification("check pump", "Just now", nil), nil},
		{"info with anomaly", Notification{Type: NotificationInfo, Message: "x", Anomaly: &Anomaly{}}, ErrUnexpectedAnomaly},
		{"unknown type", Notification{Type: "other", Message: "x"}, ErrUnknownNotificationType},
		{"empty message", Notification{Type: NotificationInfo}, ErrMessageRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.n.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMaintenanceInputValidate(t *testing.T) {
	in := MaintenanceRequestInput{IssueType: "Leak Detected", Location: "Pump", Details: "drip"}
	assert.NoError(t, in.Validate())

	in.Urgency = "Urgent"
	assert.ErrorIs(t, in.Validate(), ErrInvalidUrgency)

	assert.ErrorIs(t, MaintenanceRequestInput{Location: "x", Details: "y"}.Validate(), ErrIssueTypeRequired)
	assert.ErrorIs(t, MaintenanceRequestInput{IssueType: "x", Details: "y"}.Validate(), ErrLocationRequired)
	assert.ErrorIs(t, MaintenanceRequestInput{IssueType: "x", Location: "y"}.Validate(), ErrDetailsRequired)
}

func TestTankPercent(t *testing.T) {
	assert.Equal(t, 60.0, TankLevel{Current: 180, Capacity: 300}.Percent())
	assert.Equal(t, 0.0, TankLevel{Current: 1}.Percent())
}
