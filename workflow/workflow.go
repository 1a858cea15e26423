package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ecowatch/models"
)

// DefaultAuthor is recorded when an update arrives without an author
const DefaultAuthor = "Official Name"

// JustNow is the display timestamp given to freshly recorded entries
const JustNow = "Just now"

var (
	ErrUnknownStatus        = errors.New("unknown report status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// UpdateInput is what an official submits when moving a report along
type UpdateInput struct {
	Status      models.ReportStatus `json:"status"`
	Author      string              `json:"author"`
	Notes       string              `json:"notes,omitempty"`
	EvidenceURL string              `json:"evidence_url,omitempty"`
}

// Policy decides whether a report may move from one status to another
type Policy interface {
	Allowed(from, to models.ReportStatus) bool
}

// Permissive allows every transition, including repeats
type Permissive struct{}

// Allowed always returns true
func (Permissive) Allowed(from, to models.ReportStatus) bool { return true }

// TransitionTable allows only the listed (from, to) pairs
type TransitionTable map[models.ReportStatus][]models.ReportStatus

// Allowed reports whether to is listed for from
func (t TransitionTable) Allowed(from, to models.ReportStatus) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StrictTransitions is a forward-only table. Resolved and Duplicate are terminal.
func StrictTransitions() TransitionTable {
	return TransitionTable{
		models.StatusSubmitted: {
			models.StatusAcknowledged, models.StatusInProgress, models.StatusResolved, models.StatusDuplicate,
		},
		models.StatusAcknowledged: {
			models.StatusAcknowledged, models.StatusInProgress, models.StatusResolved, models.StatusDuplicate,
		},
		models.StatusInProgress: {
			models.StatusInProgress, models.StatusResolved, models.StatusDuplicate,
		},
	}
}

// Engine applies status updates to reports
type Engine struct {
	policy Policy
}

// NewEngine creates an engine. A nil policy means Permissive.
func NewEngine(policy Policy) *Engine {
	if policy == nil {
		policy = Permissive{}
	}
	return &Engine{policy: policy}
}

// ApplyUpdate returns a copy of report with the update appended and the
// status set to the update's status. The input report is not modified.
func (e *Engine) ApplyUpdate(report models.PollutionReport, in UpdateInput, now time.Time) (models.PollutionReport, error) {
	if !in.Status.Valid() {
		return models.PollutionReport{}, fmt.Errorf("%w: %q", ErrUnknownStatus, in.Status)
	}
	from := report.CurrentStatus()
	if !e.policy.Allowed(from, in.Status) {
		return models.PollutionReport{}, fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, from, in.Status)
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = DefaultAuthor
	}

	out := report.Clone()
	out.Updates = append(out.Updates, models.ReportUpdate{
		Timestamp:   JustNow,
		RecordedAt:  now,
		Status:      in.Status,
		Author:      author,
		Notes:       strings.TrimSpace(in.Notes),
		EvidenceURL: in.EvidenceURL,
	})
	out.Status = in.Status
	return out, nil
}
