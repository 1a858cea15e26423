package state

import (
	"errors"
	"fmt"
	"time"

	"ecowatch/models"
)

// CurrentUser is the single household/reporter identity the dashboard runs as
const CurrentUser = "user-789"

// JustNow is the display timestamp given to newly created entries
const JustNow = "Just now"

// ScheduleLayout renders a scheduled date, e.g. "Wed Nov 20 2024"
const ScheduleLayout = "Mon Jan 02 2006"

var (
	ErrReportNotFound             = errors.New("report not found")
	ErrNotificationNotFound       = errors.New("notification not found")
	ErrMaintenanceRequestNotFound = errors.New("maintenance request not found")
	ErrMaintenanceTerminal        = errors.New("maintenance request is already closed")
	ErrInvalidSchedule            = errors.New("invalid schedule date or time")
	ErrUnknownAction              = errors.New("unknown action")
)

// State is the whole application state. Slices are newest first and are never
// modified in place: every reduction allocates the slices it changes.
type State struct {
	Reports             []models.PollutionReport
	MaintenanceRequests []models.MaintenanceRequest
	Notifications       []models.Notification
	Officials           []models.Official
}

// Action is a state transition request
type Action interface {
	Name() string
}

// AddReport stores a submitted draft as a new report
type AddReport struct {
	Draft models.ReportDraft
	Now   time.Time
}

// UpdateReport replaces the report with the same id. An unknown id leaves the
// state untouched and reduces to ErrReportNotFound.
type UpdateReport struct {
	Report models.PollutionReport
}

// AddNotification prepends a notification with the next id
type AddNotification struct {
	Notification models.Notification
}

// UpdateNotification applies a partial update. An unknown id leaves the state
// untouched and reduces to ErrNotificationNotFound.
type UpdateNotification struct {
	ID    int
	Patch models.NotificationPatch
}

// FileMaintenanceRequest creates a request from the household issue form
type FileMaintenanceRequest struct {
	Input models.MaintenanceRequestInput
	Now   time.Time
}

// ScheduleMaintenance books a visit. Date is YYYY-MM-DD and Time is HH:MM.
type ScheduleMaintenance struct {
	ID   string
	Date string
	Time string
}

// ResolveMaintenance closes a request as done
type ResolveMaintenance struct {
	ID string
}

// CancelMaintenance closes a request without a visit
type CancelMaintenance struct {
	ID string
}

func (AddReport) Name() string              { return "add_report" }
func (UpdateReport) Name() string           { return "update_report" }
func (AddNotification) Name() string        { return "add_notification" }
func (UpdateNotification) Name() string     { return "update_notification" }
func (FileMaintenanceRequest) Name() string { return "file_maintenance_request" }
func (ScheduleMaintenance) Name() string    { return "schedule_maintenance" }
func (ResolveMaintenance) Name() string     { return "resolve_maintenance" }
func (CancelMaintenance) Name() string      { return "cancel_maintenance" }

// Reduce returns the state that results from applying a to s. On error the
// returned state is s unchanged.
func Reduce(s State, a Action) (State, error) {
	switch act := a.(type) {
	case AddReport:
		return addReport(s, act), nil
	case UpdateReport:
		return updateReport(s, act)
	case AddNotification:
		return addNotification(s, act.Notification)
	case UpdateNotification:
		return updateNotification(s, act)
	case FileMaintenanceRequest:
		return fileMaintenanceRequest(s, act)
	case ScheduleMaintenance:
		return scheduleMaintenance(s, act)
	case ResolveMaintenance:
		return closeMaintenance(s, act.ID, models.MaintenanceResolved)
	case CancelMaintenance:
		return closeMaintenance(s, act.ID, models.MaintenanceCancelled)
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

// ReportID formats the sequence number n as a report id
func ReportID(n int) string {
	return fmt.Sprintf("PR-%03d", n)
}

// MaintenanceRequestID formats the sequence number n as a maintenance request id
func MaintenanceRequestID(n int) string {
	return fmt.Sprintf("MR-%03d", n)
}

// NextNotificationID is one past the highest id in the feed, or 1 when empty
func NextNotificationID(feed []models.Notification) int {
	max := 0
	for _, n := range feed {
		if n.ID > max {
			max = n.ID
		}
	}
	return max + 1
}

func addReport(s State, act AddReport) State {
	d := act.Draft
	report := models.PollutionReport{
		ID:              ReportID(len(s.Reports) + 1),
		Timestamp:       JustNow,
		CreatedAt:       act.Now,
		ReporterID:      CurrentUser,
		ImageURL:        d.ImageURL,
		BoundingBox:     d.BoundingBox,
		Comment:         d.Comment,
		Severity:        d.Severity,
		Location:        d.Location,
		TaggedOfficials: d.TaggedOfficials,
		SensorSnapshot:  d.SensorSnapshot,
		Status:          d.Status,
	}
	if report.Status == "" {
		report.Status = models.StatusSubmitted
	}
	report = report.Clone()

	reports := make([]models.PollutionReport, 0, len(s.Reports)+1)
	reports = append(reports, report)
	s.Reports = append(reports, s.Reports...)
	return s
}

func updateReport(s State, act UpdateReport) (State, error) {
	idx := -1
	for i, r := range s.Reports {
		if r.ID == act.Report.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrReportNotFound, act.Report.ID)
	}
	reports := append([]models.PollutionReport(nil), s.Reports...)
	reports[idx] = act.Report.Clone()
	s.Reports = reports
	return s, nil
}

func addNotification(s State, n models.Notification) (State, error) {
	if err := n.Validate(); err != nil {
		return s, err
	}
	n.ID = NextNotificationID(s.Notifications)
	if n.Anomaly != nil {
		a := *n.Anomaly
		n.Anomaly = &a
	}
	feed := make([]models.Notification, 0, len(s.Notifications)+1)
	feed = append(feed, n)
	s.Notifications = append(feed, s.Notifications...)
	return s, nil
}

func updateNotification(s State, act UpdateNotification) (State, error) {
	for i, n := range s.Notifications {
		if n.ID != act.ID {
			continue
		}
		feed := append([]models.Notification(nil), s.Notifications...)
		if act.Patch.Read != nil {
			feed[i].Read = *act.Patch.Read
		}
		s.Notifications = feed
		return s, nil
	}
	return s, fmt.Errorf("%w: %d", ErrNotificationNotFound, act.ID)
}

func findNotification(feed []models.Notification, id int) (models.Notification, bool) {
	for _, n := range feed {
		if n.ID == id {
			return n, true
		}
	}
	return models.Notification{}, false
}

func fileMaintenanceRequest(s State, act FileMaintenanceRequest) (State, error) {
	in := act.Input
	if err := in.Validate(); err != nil {
		return s, err
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	req := models.MaintenanceRequest{
		ID:          MaintenanceRequestID(len(s.MaintenanceRequests) + 1),
		HouseholdID: CurrentUser,
		ReportedAt:  JustNow,
		CreatedAt:   act.Now,
		IssueType:   in.IssueType,
		Urgency:     urgency,
		Location:    in.Location,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Details:     in.Details,
		MediaURL:    in.MediaURL,
		Status:      models.MaintenancePending,
	}

	var originID int
	hasOrigin := in.OriginNotificationID != nil
	if hasOrigin {
		originID = *in.OriginNotificationID
		origin, ok := findNotification(s.Notifications, originID)
		if !ok {
			return s, fmt.Errorf("%w: %d", ErrNotificationNotFound, originID)
		}
		req.OriginNotificationID = &originID
		if origin.Anomaly != nil {
			req.AnomalyContext = &models.AnomalyContext{Sensor: origin.Anomaly.Sensor, Value: origin.Anomaly.Value}
		}
	}

	requests := make([]models.MaintenanceRequest, 0, len(s.MaintenanceRequests)+1)
	requests = append(requests, req)
	s.MaintenanceRequests = append(requests, s.MaintenanceRequests...)

	// Filing clears every outstanding action_required entry, plus the origin.
	feed := append([]models.Notification(nil), s.Notifications...)
	for i := range feed {
		if feed[i].Type == models.NotificationActionRequired || (hasOrigin && feed[i].ID == originID) {
			feed[i].Read = true
		}
	}
	s.Notifications = feed
	return s, nil
}

// FormatSchedule renders the display string stored on a scheduled request
func FormatSchedule(date, clock string) (string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("%w: date %q", ErrInvalidSchedule, date)
	}
	at, err := time.Parse("15:04", clock)
	if err != nil {
		return "", fmt.Errorf("%w: time %q", ErrInvalidSchedule, clock)
	}
	return day.Format(ScheduleLayout) + " @ " + at.Format("15:04"), nil
}

func findMaintenanceRequest(reqs []models.MaintenanceRequest, id string) int {
	for i, r := range reqs {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func scheduleMaintenance(s State, act ScheduleMaintenance) (State, error) {
	idx := findMaintenanceRequest(s.MaintenanceRequests, act.ID)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrMaintenanceRequestNotFound, act.ID)
	}
	if s.MaintenanceRequests[idx].Status.Terminal() {
		return s, fmt.Errorf("%w: %s", ErrMaintenanceTerminal, act.ID)
	}
	when, err := FormatSchedule(act.Date, act.Time)
	if err != nil {
		return s, err
	}

	requests := append([]models.MaintenanceRequest(nil), s.MaintenanceRequests...)
	requests[idx].Status = models.MaintenanceScheduled
	requests[idx].ScheduledFor = when
	s.MaintenanceRequests = requests

	msg := fmt.Sprintf("Your maintenance request #%s has been scheduled for %s.", act.ID, when)
	return addNotification(s, models.NewInfoNotification(msg, JustNow))
}

func closeMaintenance(s State, id string, status models.MaintenanceStatus) (State, error) {
	idx := findMaintenanceRequest(s.MaintenanceRequests, id)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrMaintenanceRequestNotFound, id)
	}
	if s.MaintenanceRequests[idx].Status.Terminal() {
		return s, fmt.Errorf("%w: %s", ErrMaintenanceTerminal, id)
	}
	requests := append([]models.MaintenanceRequest(nil), s.MaintenanceRequests...)
	requests[idx].Status = status
	s.MaintenanceRequests = requests
	return s, nil
}
