package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowatch/composer"
	"ecowatch/config"
	"ecowatch/gemini"
	"ecowatch/metrics"
	"ecowatch/models"
	"ecowatch/seed"
	"ecowatch/state"
	"ecowatch/workflow"
)

type fakeFeed struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeFeed) Broadcast(eventType string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func (f *fakeFeed) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.ReportEvent
	err    error
}

func (p *fakePublisher) PublishReportEvent(_ context.Context, ev models.ReportEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type fakeMailer struct {
	mu      sync.Mutex
	reports []string
}

func (m *fakeMailer) NotifyOfficials(r models.PollutionReport) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r.ID)
	return len(r.TaggedOfficials), nil
}

func newTestService(cfg *config.Config) (*Service, *fakeFeed, *fakePublisher, *fakeMailer) {
	feed := &fakeFeed{}
	pub := &fakePublisher{}
	mailer := &fakeMailer{}
	s := newService(cfg, state.NewStore(seed.State(nil)), feed)
	s.publisher = pub
	s.mailer = mailer
	return s, feed, pub, mailer
}

func TestSubmitReportFansOut(t *testing.T) {
	s, feed, pub, mailer := newTestService(&config.Config{})

	report, err := s.SubmitReport(composer.Request{
		ImageURL:    "https://picsum.photos/seed/pr003/800/600",
		Comment:     "Foam on the creek",
		OfficialIDs: []string{"off2", "off3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "PR-003", report.ID)
	assert.Equal(t, models.StatusSubmitted, report.Status)

	s.wg.Wait()
	assert.Equal(t, []string{models.EventReportCreated}, feed.types())
	require.Len(t, pub.events, 1)
	assert.Equal(t, models.EventReportCreated, pub.events[0].Type)
	assert.Equal(t, "PR-003", pub.events[0].ReportID)
	assert.Equal(t, []string{"off2", "off3"}, pub.events[0].OfficialIDs)
	assert.NotEmpty(t, pub.events[0].EventID)
	assert.Equal(t, []string{"PR-003"}, mailer.reports)
}

func TestSubmitReportRejectsUnknownOfficial(t *testing.T) {
	s, feed, _, _ := newTestService(&config.Config{})

	_, err := s.SubmitReport(composer.Request{ImageURL: "x.jpg", OfficialIDs: []string{"off9"}})
	assert.ErrorIs(t, err, composer.ErrUnknownOfficial)
	assert.Empty(t, feed.types())
	assert.Len(t, s.Store().Reports(), 2)
}

func TestUpdateReportStatusPublishes(t *testing.T) {
	s, feed, pub, _ := newTestService(&config.Config{})

	updated, err := s.UpdateReportStatus("PR-002", workflow.UpdateInput{Status: models.StatusAcknowledged, Notes: "Reopened"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAcknowledged, updated.CurrentStatus())

	s.wg.Wait()
	assert.Equal(t, []string{models.EventReportStatusChanged}, feed.types())
	require.Len(t, pub.events, 1)
	assert.Equal(t, models.StatusAcknowledged, pub.events[0].Status)
	assert.Equal(t, workflow.DefaultAuthor, pub.events[0].Author)
	assert.Equal(t, "Reopened", pub.events[0].Notes)
}

func TestReplacingUnknownReportEmitsNothing(t *testing.T) {
	s, feed, pub, _ := newTestService(&config.Config{})
	before := testutil.ToFloat64(metrics.StatusUpdatesTotal.WithLabelValues(string(models.StatusResolved)))

	ghost := models.PollutionReport{ID: "PR-999", Status: models.StatusResolved}
	assert.False(t, s.Store().UpdateReport(ghost))

	s.wg.Wait()
	assert.Empty(t, feed.types())
	assert.Empty(t, pub.events)
	assert.Equal(t, before, testutil.ToFloat64(metrics.StatusUpdatesTotal.WithLabelValues(string(models.StatusResolved))))
	_, ok := s.Store().Report("PR-999")
	assert.False(t, ok)
}

func TestStrictTransitionsFromConfig(t *testing.T) {
	s, _, pub, _ := newTestService(&config.Config{StrictTransitions: true})

	_, err := s.UpdateReportStatus("PR-002", workflow.UpdateInput{Status: models.StatusAcknowledged})
	assert.ErrorIs(t, err, workflow.ErrTransitionNotAllowed)
	s.wg.Wait()
	assert.Empty(t, pub.events)
}

func TestUpdateUnknownReport(t *testing.T) {
	s, _, _, _ := newTestService(&config.Config{})
	_, err := s.UpdateReportStatus("PR-404", workflow.UpdateInput{Status: models.StatusResolved})
	assert.ErrorIs(t, err, state.ErrReportNotFound)
}

func TestPublishFailureDoesNotFailAction(t *testing.T) {
	s, _, pub, _ := newTestService(&config.Config{})
	pub.err = errors.New("broker down")

	_, err := s.SubmitReport(composer.Request{ImageURL: "x.jpg"})
	require.NoError(t, err)
	s.wg.Wait()
	assert.Len(t, pub.events, 1)
}

func TestMaintenanceEventsBroadcast(t *testing.T) {
	s, feed, _, _ := newTestService(&config.Config{})
	store := s.Store()

	_, _, err := store.ScheduleMaintenance("MR-001", "2024-11-20", "10:30")
	require.NoError(t, err)
	_, err = store.ResolveMaintenance("MR-001")
	require.NoError(t, err)

	assert.Equal(t, []string{
		models.EventMaintenanceChanged,
		models.EventNotificationAdded,
		models.EventMaintenanceChanged,
	}, feed.types())
}

func TestMonitorPendingBroadcasts(t *testing.T) {
	s, feed, _, _ := newTestService(&config.Config{})

	for i := 0; i < 50 && s.Monitor().Pending() == nil; i++ {
		s.Monitor().Check()
	}
	require.NotNil(t, s.Monitor().Pending())
	assert.Contains(t, feed.types(), models.EventAnomalyPending)

	n, err := s.Monitor().Acknowledge()
	require.NoError(t, err)
	assert.Equal(t, models.NotificationAlert, n.Type)
	assert.Equal(t, n, s.Store().Notifications()[0])
	assert.Contains(t, feed.types(), models.EventNotificationAdded)
}

func TestAIDisabledWithoutClient(t *testing.T) {
	s, _, _, _ := newTestService(&config.Config{})
	_, err := s.WaterReuseInsight(context.Background(), models.WaterQualityMetrics{})
	assert.ErrorIs(t, err, gemini.ErrAIDisabled)
	_, err = s.PredictiveMaintenanceAlert(context.Background(), models.SystemHealthData{})
	assert.ErrorIs(t, err, gemini.ErrAIDisabled)
}

func TestStartStop(t *testing.T) {
	s, _, _, _ := newTestService(&config.Config{AnomalyEnabled: true, AnomalyCheckInterval: 10 * time.Millisecond})
	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()
}
