package anomaly

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/apex/log"

	"ecowatch/metrics"
	"ecowatch/models"
)

const (
	DefaultInterval = 10 * time.Second
	SensorCooldown  = 2 * time.Minute
	GlobalCooldown  = 30 * time.Second

	// TimestampLayout matches the dashboard's locale date-time rendering
	TimestampLayout = "1/2/2006, 3:04:05 PM"
)

var ErrNoPendingAlert = errors.New("no pending anomaly alert")

// Threshold triggers an alert when a sensor reading crosses Limit
type Threshold struct {
	Sensor  string
	Above   bool
	Limit   float64
	Message string
}

// Hit reports whether v crosses the threshold
func (t Threshold) Hit(v float64) bool {
	if t.Above {
		return v > t.Limit
	}
	return v < t.Limit
}

// Thresholds are evaluated in order; the first sensor that trips and is not
// cooling down raises the alert.
var Thresholds = []Threshold{
	{Sensor: "DO", Above: false, Limit: 3.5, Message: "Dissolved Oxygen too low!"},
	{Sensor: "turbidity", Above: true, Limit: 20, Message: "Turbidity too high!"},
	{Sensor: "TDS", Above: true, Limit: 500, Message: "TDS exceeds safe limit!"},
	{Sensor: "ORP", Above: true, Limit: 700, Message: "ORP spike detected!"},
}

func value(r models.AnomalyReading, sensor string) float64 {
	switch sensor {
	case "DO":
		return r.DO
	case "turbidity":
		return r.Turbidity
	case "TDS":
		return r.TDS
	case "ORP":
		return r.ORP
	}
	return math.NaN()
}

// ReadingSource produces sensor samples
type ReadingSource interface {
	Read() models.AnomalyReading
}

// RandomSource simulates the household sensors
type RandomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource creates a simulated source seeded with seed
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rnd: rand.New(rand.NewSource(seed))}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Read draws DO in [2,8), turbidity in [0,30), TDS in [100,900) and ORP in [100,1000)
func (s *RandomSource) Read() models.AnomalyReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.AnomalyReading{
		DO:        round(s.rnd.Float64()*6+2, 2),
		Turbidity: round(s.rnd.Float64()*30, 1),
		TDS:       round(s.rnd.Float64()*800+100, 0),
		ORP:       round(s.rnd.Float64()*900+100, 0),
	}
}

// Alert is a threshold crossing waiting for, or past, acknowledgement
type Alert struct {
	Timestamp string    `json:"timestamp"`
	RaisedAt  time.Time `json:"raised_at"`
	Sensor    string    `json:"sensor"`
	Value     float64   `json:"value"`
	Message   string    `json:"message"`
}

// NotificationMessage is the feed text recorded when the alert is acknowledged
func (a Alert) NotificationMessage() string {
	return fmt.Sprintf("%s (Sensor: %s, Value: %s)", a.Message, a.Sensor, strconv.FormatFloat(a.Value, 'f', -1, 64))
}

// Notifier receives the feed entry created on acknowledgement
type Notifier interface {
	AddNotification(n models.Notification) (models.Notification, error)
}

// Monitor periodically samples sensors and raises at most one alert at a time
type Monitor struct {
	mu          sync.Mutex
	source      ReadingSource
	notifier    Notifier
	interval    time.Duration
	now         func() time.Time
	pending     *Alert
	lastAlert   map[string]time.Time
	globalUntil time.Time
	history     []Alert
	onPending   func(Alert)
}

// NewMonitor creates a monitor. A non-positive interval uses DefaultInterval.
func NewMonitor(source ReadingSource, notifier Notifier, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		source:    source,
		notifier:  notifier,
		interval:  interval,
		now:       time.Now,
		lastAlert: make(map[string]time.Time),
	}
}

// SetClock replaces the time source
func (m *Monitor) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// OnPending registers a callback invoked whenever a new alert is raised
func (m *Monitor) OnPending(fn func(Alert)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPending = fn
}

// Check samples once. It returns the alert raised by this check, if any.
func (m *Monitor) Check() (*Alert, bool) {
	m.mu.Lock()
	now := m.now()
	metrics.AnomalyLastCheckSeconds.Set(float64(now.Unix()))
	if m.pending != nil || now.Before(m.globalUntil) {
		m.mu.Unlock()
		return nil, false
	}

	reading := m.source.Read()
	var raised *Alert
	for _, t := range Thresholds {
		v := value(reading, t.Sensor)
		if !t.Hit(v) {
			continue
		}
		if last, ok := m.lastAlert[t.Sensor]; ok && now.Sub(last) < SensorCooldown {
			continue
		}
		raised = &Alert{
			Timestamp: now.Format(TimestampLayout),
			RaisedAt:  now,
			Sensor:    t.Sensor,
			Value:     v,
			Message:   t.Message,
		}
		break
	}
	if raised == nil {
		m.mu.Unlock()
		return nil, false
	}
	m.pending = raised
	cb := m.onPending
	m.mu.Unlock()

	metrics.AnomaliesRaisedTotal.WithLabelValues(raised.Sensor).Inc()
	log.Warnf("Anomaly detected: %s (sensor %s, value %v)", raised.Message, raised.Sensor, raised.Value)
	if cb != nil {
		cb(*raised)
	}
	out := *raised
	return &out, true
}

// Pending returns the alert awaiting acknowledgement, or nil
func (m *Monitor) Pending() *Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return nil
	}
	a := *m.pending
	return &a
}

// Acknowledge closes the pending alert: it is logged, both cooldowns start,
// and a high-severity alert notification is added to the feed.
func (m *Monitor) Acknowledge() (models.Notification, error) {
	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return models.Notification{}, ErrNoPendingAlert
	}
	a := *m.pending
	now := m.now()
	m.pending = nil
	m.history = append([]Alert{a}, m.history...)
	m.lastAlert[a.Sensor] = now
	m.globalUntil = now.Add(GlobalCooldown)
	m.mu.Unlock()

	n := models.NewAlertNotification(a.NotificationMessage(), now.Format(TimestampLayout), models.Anomaly{
		Severity: models.SeverityHigh,
		Sensor:   a.Sensor,
		Value:    a.Value,
	})
	if m.notifier == nil {
		return n, nil
	}
	return m.notifier.AddNotification(n)
}

// Log returns acknowledged alerts, newest first
func (m *Monitor) Log() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Alert(nil), m.history...)
}

// Run checks immediately and then on every tick until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.Infof("Anomaly monitor started (interval %s)", m.interval)
	m.Check()
	for {
		select {
		case <-ctx.Done():
			log.Info("Anomaly monitor stopped")
			return
		case <-ticker.C:
			m.Check()
		}
	}
}
