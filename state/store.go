package state

import (
	"fmt"
	"sync"
	"time"

	"ecowatch/models"
)

// Listener is called after every dispatch that changed the state. Listeners
// run outside the state lock and in commit order, one dispatch at a time.
// They may read the store but must not dispatch.
type Listener func(action Action, next State)

// Store serialises dispatches so id assignment and read-modify-write
// updates never interleave.
type Store struct {
	mu        sync.RWMutex
	state     State
	seq       uint64
	listeners []Listener
	now       func() time.Time

	notifyMu  sync.Mutex
	turn      *sync.Cond
	delivered uint64
}

// NewStore creates a store holding initial
func NewStore(initial State) *Store {
	s := &Store{state: initial, now: time.Now}
	s.turn = sync.NewCond(&s.notifyMu)
	return s
}

// SetClock replaces the time source used for new entries
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Subscribe registers l for future dispatches
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns the current state. Callers must not modify it.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Seq is the number of committed dispatches
func (s *Store) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Dispatch reduces a against the current state. A failed reduction leaves
// the state unchanged and notifies nobody.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	next, err := Reduce(s.state, a)
	if err != nil {
		cur := s.state
		s.mu.Unlock()
		return cur, err
	}
	s.commit(a, next)
	return next, nil
}

// commit stores next as the next sequence number and releases mu. Listeners
// for a commit start only after every earlier commit's listeners returned.
func (s *Store) commit(a Action, next State) {
	s.state = next
	s.seq++
	seq := s.seq
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.notifyMu.Lock()
	for s.delivered != seq-1 {
		s.turn.Wait()
	}
	s.notifyMu.Unlock()

	defer func() {
		s.notifyMu.Lock()
		s.delivered = seq
		s.notifyMu.Unlock()
		s.turn.Broadcast()
	}()
	for _, l := range listeners {
		l(a, next)
	}
}

func (s *Store) clock() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

// Reports returns copies of all reports, newest first
func (s *Store) Reports() []models.PollutionReport {
	snap := s.Snapshot()
	out := make([]models.PollutionReport, len(snap.Reports))
	for i, r := range snap.Reports {
		out[i] = r.Clone()
	}
	return out
}

// Report returns a copy of the report with the given id
func (s *Store) Report(id string) (models.PollutionReport, bool) {
	for _, r := range s.Snapshot().Reports {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return models.PollutionReport{}, false
}

// AddReport stores draft and returns the created report
func (s *Store) AddReport(draft models.ReportDraft) models.PollutionReport {
	next, _ := s.Dispatch(AddReport{Draft: draft, Now: s.clock()})
	return next.Reports[0].Clone()
}

// UpdateReport replaces a stored report and reports whether it was found.
// Unknown ids are a no-op.
func (s *Store) UpdateReport(report models.PollutionReport) bool {
	_, err := s.Dispatch(UpdateReport{Report: report})
	return err == nil
}

// ApplyReportUpdate reads the report, transforms it with fn and stores the
// result in one atomic step.
func (s *Store) ApplyReportUpdate(id string, fn func(models.PollutionReport, time.Time) (models.PollutionReport, error)) (models.PollutionReport, error) {
	s.mu.Lock()
	var current *models.PollutionReport
	for i := range s.state.Reports {
		if s.state.Reports[i].ID == id {
			current = &s.state.Reports[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		return models.PollutionReport{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	updated, err := fn(current.Clone(), s.now())
	if err != nil {
		s.mu.Unlock()
		return models.PollutionReport{}, err
	}
	updated.ID = id
	action := UpdateReport{Report: updated}
	next, err := Reduce(s.state, action)
	if err != nil {
		s.mu.Unlock()
		return models.PollutionReport{}, err
	}
	s.commit(action, next)
	return updated.Clone(), nil
}

// Officials returns the officials directory
func (s *Store) Officials() []models.Official {
	return append([]models.Official(nil), s.Snapshot().Officials...)
}

// Notifications returns the feed, newest first
func (s *Store) Notifications() []models.Notification {
	return append([]models.Notification(nil), s.Snapshot().Notifications...)
}

// Notification returns the notification with the given id
func (s *Store) Notification(id int) (models.Notification, bool) {
	return findNotification(s.Snapshot().Notifications, id)
}

// AddNotification prepends n with the next id and returns it
func (s *Store) AddNotification(n models.Notification) (models.Notification, error) {
	next, err := s.Dispatch(AddNotification{Notification: n})
	if err != nil {
		return models.Notification{}, err
	}
	return next.Notifications[0], nil
}

// UpdateNotification applies patch to the notification with the given id
func (s *Store) UpdateNotification(id int, patch models.NotificationPatch) (models.Notification, error) {
	next, err := s.Dispatch(UpdateNotification{ID: id, Patch: patch})
	if err != nil {
		return models.Notification{}, err
	}
	n, _ := findNotification(next.Notifications, id)
	return n, nil
}

// MaintenanceRequests returns all requests, newest first
func (s *Store) MaintenanceRequests() []models.MaintenanceRequest {
	return append([]models.MaintenanceRequest(nil), s.Snapshot().MaintenanceRequests...)
}

// FileMaintenanceRequest creates a request and clears action_required notifications
func (s *Store) FileMaintenanceRequest(in models.MaintenanceRequestInput) (models.MaintenanceRequest, error) {
	next, err := s.Dispatch(FileMaintenanceRequest{Input: in, Now: s.clock()})
	if err != nil {
		return models.MaintenanceRequest{}, err
	}
	return next.MaintenanceRequests[0], nil
}

// ScheduleMaintenance schedules a request and returns it with the confirmation notification
func (s *Store) ScheduleMaintenance(id, date, clock string) (models.MaintenanceRequest, models.Notification, error) {
	next, err := s.Dispatch(ScheduleMaintenance{ID: id, Date: date, Time: clock})
	if err != nil {
		return models.MaintenanceRequest{}, models.Notification{}, err
	}
	return next.MaintenanceRequests[findMaintenanceRequest(next.MaintenanceRequests, id)], next.Notifications[0], nil
}

// ResolveMaintenance marks a request resolved
func (s *Store) ResolveMaintenance(id string) (models.MaintenanceRequest, error) {
	return s.closeMaintenance(ResolveMaintenance{ID: id}, id)
}

// CancelMaintenance marks a request cancelled
func (s *Store) CancelMaintenance(id string) (models.MaintenanceRequest, error) {
	return s.closeMaintenance(CancelMaintenance{ID: id}, id)
}

func (s *Store) closeMaintenance(a Action, id string) (models.MaintenanceRequest, error) {
	next, err := s.Dispatch(a)
	if err != nil {
		return models.MaintenanceRequest{}, err
	}
	return next.MaintenanceRequests[findMaintenanceRequest(next.MaintenanceRequests, id)], nil
}
