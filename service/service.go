package service

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"ecowatch/anomaly"
	"ecowatch/composer"
	"ecowatch/config"
	"ecowatch/email"
	"ecowatch/gemini"
	"ecowatch/metrics"
	"ecowatch/models"
	"ecowatch/rabbitmq"
	"ecowatch/seed"
	"ecowatch/state"
	"ecowatch/websocket"
	"ecowatch/workflow"
)

// Broadcaster pushes events to live feed subscribers
type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

// EventPublisher forwards report events to the message broker
type EventPublisher interface {
	PublishReportEvent(ctx context.Context, ev models.ReportEvent) error
	Close() error
}

// OfficialNotifier e-mails the officials tagged on a report
type OfficialNotifier interface {
	NotifyOfficials(report models.PollutionReport) (int, error)
}

// Service owns the store and the outbound channels that react to it
type Service struct {
	config  *config.Config
	store   *state.Store
	engine  *workflow.Engine
	monitor *anomaly.Monitor
	hub     *websocket.Hub
	ai      *gemini.Client

	feed      Broadcaster
	publisher EventPublisher
	mailer    OfficialNotifier

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService builds the service from configuration. Outbound channels that
// are not configured, or cannot be reached, are left out.
func NewService(cfg *config.Config, officials []models.Official) *Service {
	hub := websocket.NewHub()
	s := newService(cfg, state.NewStore(seed.State(officials)), hub)
	s.hub = hub
	s.ai = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	if !s.ai.Enabled() {
		log.Warn("GEMINI_API_KEY not set, AI insights disabled")
	}

	if url := cfg.AMQPURL(); url != "" {
		pub, err := rabbitmq.NewPublisher(url, cfg.RabbitExchange, cfg.RabbitReportRoutingKey)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, report events will not be published")
		} else {
			s.publisher = pub
		}
	} else {
		log.Warn("AMQP_HOST not set, report events will not be published")
	}

	if cfg.SendGridAPIKey != "" {
		s.mailer = email.NewSender(cfg)
	} else {
		log.Warn("SENDGRID_API_KEY not set, officials will not be e-mailed")
	}
	return s
}

func newService(cfg *config.Config, store *state.Store, feed Broadcaster) *Service {
	policy := workflow.Policy(workflow.Permissive{})
	if cfg.StrictTransitions {
		policy = workflow.StrictTransitions()
	}

	s := &Service{
		config: cfg,
		store:  store,
		engine: workflow.NewEngine(policy),
		feed:   feed,
	}
	s.monitor = anomaly.NewMonitor(anomaly.NewRandomSource(time.Now().UnixNano()), store, cfg.AnomalyCheckInterval)
	s.monitor.OnPending(func(a anomaly.Alert) {
		s.broadcast(models.EventAnomalyPending, a)
	})
	store.Subscribe(s.onChange)
	return s
}

// Start runs the feed hub and, when enabled, the anomaly monitor
func (s *Service) Start() {
	log.Info("Starting ecowatch service...")
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.hub != nil {
		go s.hub.Run()
	}
	if s.config.AnomalyEnabled {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.monitor.Run(ctx)
		}()
	} else {
		log.Info("Anomaly monitor disabled")
	}
	log.Info("Ecowatch service started")
}

// Stop ends background work and waits for in-flight notifications
func (s *Service) Stop() {
	log.Info("Stopping ecowatch service...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	if s.hub != nil {
		s.hub.Stop()
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.WithError(err).Warn("Error closing publisher")
		}
	}
	log.Info("Ecowatch service stopped")
}

func (s *Service) Store() *state.Store { return s.store }
func (s *Service) Monitor() *anomaly.Monitor { return s.monitor }
func (s *Service) Hub() *websocket.Hub { return s.hub }
func (s *Service) AI() *gemini.Client { return s.ai }
func (s *Service) Engine() *workflow.Engine { return s.engine }
func (s *Service) Config() *config.Config { return s.config }

// PublisherConnected reports broker health, false when publishing is off
func (s *Service) PublisherConnected() bool {
	p, ok := s.publisher.(*rabbitmq.Publisher)
	return ok && p.IsConnected()
}

// SubmitReport composes req against the officials directory and stores it
func (s *Service) SubmitReport(req composer.Request) (models.PollutionReport, error) {
	draft, err := composer.Compose(req, s.store.Officials())
	if err != nil {
		return models.PollutionReport{}, err
	}
	return s.store.AddReport(draft), nil
}

// UpdateReportStatus appends a status update to the report history
func (s *Service) UpdateReportStatus(id string, in workflow.UpdateInput) (models.PollutionReport, error) {
	return s.store.ApplyReportUpdate(id, func(r models.PollutionReport, now time.Time) (models.PollutionReport, error) {
		return s.engine.ApplyUpdate(r, in, now)
	})
}

func (s *Service) broadcast(eventType string, data interface{}) {
	if s.feed != nil {
		s.feed.Broadcast(eventType, data)
	}
}

// onChange reacts to every store dispatch
func (s *Service) onChange(action state.Action, next state.State) {
	switch act := action.(type) {
	case state.AddReport:
		report := next.Reports[0].Clone()
		metrics.ReportsCreatedTotal.Inc()
		s.broadcast(models.EventReportCreated, report)
		s.notifyOfficials(report)
		s.publish(reportEvent(models.EventReportCreated, report))

	case state.UpdateReport:
		report := act.Report.Clone()
		status := report.CurrentStatus()
		metrics.StatusUpdatesTotal.WithLabelValues(string(status)).Inc()
		s.broadcast(models.EventReportStatusChanged, report)
		s.publish(reportEvent(models.EventReportStatusChanged, report))

	case state.AddNotification:
		n := next.Notifications[0]
		metrics.NotificationsTotal.WithLabelValues(string(n.Type)).Inc()
		s.broadcast(models.EventNotificationAdded, n)

	case state.UpdateNotification:
		for _, n := range next.Notifications {
			if n.ID == act.ID {
				s.broadcast(models.EventNotificationUpdated, n)
				break
			}
		}

	case state.FileMaintenanceRequest:
		s.maintenanceChanged(next.MaintenanceRequests[0])

	case state.ScheduleMaintenance:
		s.maintenanceChangedByID(next, act.ID)
		n := next.Notifications[0]
		metrics.NotificationsTotal.WithLabelValues(string(n.Type)).Inc()
		s.broadcast(models.EventNotificationAdded, n)

	case state.ResolveMaintenance:
		s.maintenanceChangedByID(next, act.ID)

	case state.CancelMaintenance:
		s.maintenanceChangedByID(next, act.ID)
	}
}

func (s *Service) maintenanceChangedByID(next state.State, id string) {
	for _, r := range next.MaintenanceRequests {
		if r.ID == id {
			s.maintenanceChanged(r)
			return
		}
	}
}

func (s *Service) maintenanceChanged(r models.MaintenanceRequest) {
	metrics.MaintenanceRequestsTotal.WithLabelValues(string(r.Status)).Inc()
	s.broadcast(models.EventMaintenanceChanged, r)
}

func reportEvent(eventType string, r models.PollutionReport) models.ReportEvent {
	ev := models.ReportEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		ReportID:    r.ID,
		Status:      r.CurrentStatus(),
		Severity:    r.Severity,
		Address:     r.Location.Address,
		OfficialIDs: make([]string, 0, len(r.TaggedOfficials)),
		OccurredAt:  time.Now().UTC(),
	}
	for _, o := range r.TaggedOfficials {
		ev.OfficialIDs = append(ev.OfficialIDs, o.ID)
	}
	if n := len(r.Updates); n > 0 {
		last := r.Updates[n-1]
		ev.Author = last.Author
		ev.Notes = last.Notes
		if !last.RecordedAt.IsZero() {
			ev.OccurredAt = last.RecordedAt
		}
	} else if !r.CreatedAt.IsZero() {
		ev.OccurredAt = r.CreatedAt
	}
	return ev
}

// publish and notifyOfficials run in the background; their failures are
// logged and never reach the caller.
func (s *Service) publish(ev models.ReportEvent) {
	if s.publisher == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.publisher.PublishReportEvent(context.Background(), ev); err != nil {
			metrics.PublishErrorsTotal.Inc()
			log.WithError(err).Warnf("Failed to publish %s for %s", ev.Type, ev.ReportID)
			return
		}
		log.Debugf("Published %s for %s", ev.Type, ev.ReportID)
	}()
}

func (s *Service) notifyOfficials(report models.PollutionReport) {
	if s.mailer == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sent, err := s.mailer.NotifyOfficials(report)
		if err != nil {
			log.WithError(err).Warnf("Some officials were not e-mailed about %s", report.ID)
		}
		if sent > 0 {
			log.Infof("E-mailed %d officials about %s", sent, report.ID)
		}
	}()
}

// WaterReuseInsight asks the model to grade household water
func (s *Service) WaterReuseInsight(ctx context.Context, m models.WaterQualityMetrics) (models.AIRecommendation, error) {
	if s.ai == nil {
		return models.AIRecommendation{}, gemini.ErrAIDisabled
	}
	return s.ai.WaterReuseInsight(ctx, m)
}

// PredictiveMaintenanceAlert asks the model which component is at risk
func (s *Service) PredictiveMaintenanceAlert(ctx context.Context, h models.SystemHealthData) (models.PredictiveAlert, error) {
	if s.ai == nil {
		return models.PredictiveAlert{}, gemini.ErrAIDisabled
	}
	return s.ai.PredictiveMaintenanceAlert(ctx, h)
}
