package models

import (
	"time"
)

// ReportStatus is the lifecycle state of a pollution report
type ReportStatus string

const (
	StatusSubmitted    ReportStatus = "Submitted"
	StatusAcknowledged ReportStatus = "Acknowledged"
	StatusInProgress   ReportStatus = "In Progress"
	StatusResolved     ReportStatus = "Resolved"
	StatusDuplicate    ReportStatus = "Duplicate"
)

// ReportStatuses lists every status in display order
var ReportStatuses = []ReportStatus{
	StatusSubmitted,
	StatusAcknowledged,
	StatusInProgress,
	StatusResolved,
	StatusDuplicate,
}

// Valid reports whether s is one of the known statuses
func (s ReportStatus) Valid() bool {
	for _, known := range ReportStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// MinBoxSize is the smallest width or height, in display pixels, a box may have
const MinBoxSize = 5.0

// BoundingBox marks a region of interest on a report image, in display pixels
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the box is large enough to keep
func (b BoundingBox) Valid() bool {
	return b.X >= 0 && b.Y >= 0 && b.Width >= MinBoxSize && b.Height >= MinBoxSize
}

// Official is a person who can be tagged on a report
type Official struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email,omitempty"`
}

// Location is a geographic point with a human-readable address
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// SensorSnapshot is the water reading captured when a report was filed
type SensorSnapshot struct {
	TDS       float64 `json:"tds"`
	Turbidity float64 `json:"turbidity"`
}

// ReportUpdate is one entry in a report's status history
type ReportUpdate struct {
	Timestamp   string       `json:"timestamp"`
	RecordedAt  time.Time    `json:"recorded_at"`
	Status      ReportStatus `json:"status"`
	Author      string       `json:"author"`
	Notes       string       `json:"notes,omitempty"`
	EvidenceURL string       `json:"evidence_url,omitempty"`
}

// PollutionReport is a citizen-submitted pollution incident
type PollutionReport struct {
	ID              string          `json:"id"`
	Timestamp       string          `json:"timestamp"`
	CreatedAt       time.Time       `json:"created_at"`
	ReporterID      string          `json:"reporter_id"`
	ImageURL        string          `json:"image_url"`
	BoundingBox     *BoundingBox    `json:"bounding_box,omitempty"`
	Comment         string          `json:"comment"`
	Severity        int             `json:"severity"`
	Location        Location        `json:"location"`
	TaggedOfficials []Official      `json:"tagged_officials"`
	SensorSnapshot  *SensorSnapshot `json:"sensor_snapshot,omitempty"`
	Status          ReportStatus    `json:"status"`
	Updates         []ReportUpdate  `json:"updates"`
}

// CurrentStatus derives the status from the update history, falling back to
// the stored status for reports that have none.
func (r PollutionReport) CurrentStatus() ReportStatus {
	if n := len(r.Updates); n > 0 {
		return r.Updates[n-1].Status
	}
	return r.Status
}

// Clone returns a deep copy so callers can modify the result freely
func (r PollutionReport) Clone() PollutionReport {
	out := r
	if r.BoundingBox != nil {
		box := *r.BoundingBox
		out.BoundingBox = &box
	}
	if r.SensorSnapshot != nil {
		snap := *r.SensorSnapshot
		out.SensorSnapshot = &snap
	}
	out.TaggedOfficials = append([]Official(nil), r.TaggedOfficials...)
	out.Updates = append([]ReportUpdate(nil), r.Updates...)
	if out.TaggedOfficials == nil {
		out.TaggedOfficials = []Official{}
	}
	if out.Updates == nil {
		out.Updates = []ReportUpdate{}
	}
	return out
}

// ReportDraft is everything the composer collects before submission
type ReportDraft struct {
	ImageURL        string          `json:"image_url"`
	BoundingBox     *BoundingBox    `json:"bounding_box,omitempty"`
	Comment         string          `json:"comment"`
	Severity        int             `json:"severity"`
	Location        Location        `json:"location"`
	TaggedOfficials []Official      `json:"tagged_officials"`
	SensorSnapshot  *SensorSnapshot `json:"sensor_snapshot,omitempty"`
	Status          ReportStatus    `json:"status"`
}

// ReportView is a report as shown in the detail view, with the box projected
// onto the reference frame.
type ReportView struct {
	PollutionReport
	BoxPercent *BoxPercent `json:"box_percent,omitempty"`
}

// BoxPercent is a bounding box expressed as percentages of the image frame
type BoxPercent struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
