package anomaly

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecowatch/models"
)

type fixedSource struct {
	mu       sync.Mutex
	readings []models.AnomalyReading
	calls    int
}

func (f *fixedSource) Read() models.AnomalyReading {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.readings[f.calls%len(f.readings)]
	f.calls++
	return r
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *recordingNotifier) AddNotification(n models.Notification) (models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = len(r.sent) + 1
	r.sent = append(r.sent, n)
	return n, nil
}

var calm = models.AnomalyReading{DO: 6, Turbidity: 2, TDS: 200, ORP: 300}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newMonitor(readings ...models.AnomalyReading) (*Monitor, *recordingNotifier, *clock) {
	n := &recordingNotifier{}
	c := &clock{t: time.Date(2024, 6, 1, 14, 5, 0, 0, time.UTC)}
	m := NewMonitor(&fixedSource{readings: readings}, n, time.Second)
	m.SetClock(c.now)
	return m, n, c
}

func TestThresholdOrder(t *testing.T) {
	m, _, _ := newMonitor(models.AnomalyReading{DO: 3.0, Turbidity: 25, TDS: 600, ORP: 800})
	a, ok := m.Check()
	require.True(t, ok)
	assert.Equal(t, "DO", a.Sensor)
	assert.Equal(t, "Dissolved Oxygen too low!", a.Message)
}

func TestCalmReadingRaisesNothing(t *testing.T) {
	m, _, _ := newMonitor(calm)
	_, ok := m.Check()
	assert.False(t, ok)
	assert.Nil(t, m.Pending())
}

func TestAlertsDoNotStack(t *testing.T) {
	m, _, _ := newMonitor(models.AnomalyReading{DO: 6, Turbidity: 25, TDS: 200, ORP: 300})
	_, ok := m.Check()
	require.True(t, ok)
	_, ok = m.Check()
	assert.False(t, ok)
	assert.Equal(t, "turbidity", m.Pending().Sensor)
}

func TestAcknowledgeAddsNotificationAndCooldowns(t *testing.T) {
	spike := models.AnomalyReading{DO: 6, Turbidity: 2, TDS: 650, ORP: 300}
	m, notifier, c := newMonitor(spike)

	_, ok := m.Check()
	require.True(t, ok)

	n, err := m.Acknowledge()
	require.NoError(t, err)
	assert.Equal(t, models.NotificationAlert, n.Type)
	assert.Equal(t, "TDS exceeds safe limit! (Sensor: TDS, Value: 650)", n.Message)
	assert.Equal(t, &models.Anomaly{Severity: models.SeverityHigh, Sensor: "TDS", Value: 650}, n.Anomaly)
	assert.Equal(t, "6/1/2024, 2:05:00 PM", n.Timestamp)
	assert.Len(t, notifier.sent, 1)
	assert.Len(t, m.Log(), 1)
	assert.Nil(t, m.Pending())

	// Global cooldown blocks everything for 30s.
	c.advance(29 * time.Second)
	_, ok = m.Check()
	assert.False(t, ok)

	// After that only the TDS sensor cooldown remains.
	c.advance(2 * time.Second)
	_, ok = m.Check()
	assert.False(t, ok)

	c.advance(2 * time.Minute)
	a, ok := m.Check()
	require.True(t, ok)
	assert.Equal(t, "TDS", a.Sensor)
}

func TestSensorCooldownFallsThroughToNextSensor(t *testing.T) {
	both := models.AnomalyReading{DO: 6, Turbidity: 25, TDS: 650, ORP: 300}
	m, _, c := newMonitor(both)

	a, _ := m.Check()
	assert.Equal(t, "turbidity", a.Sensor)
	_, err := m.Acknowledge()
	require.NoError(t, err)

	c.advance(GlobalCooldown)
	a, ok := m.Check()
	require.True(t, ok)
	assert.Equal(t, "TDS", a.Sensor)
}

func TestAcknowledgeWithoutPending(t *testing.T) {
	m, _, _ := newMonitor(calm)
	_, err := m.Acknowledge()
	assert.ErrorIs(t, err, ErrNoPendingAlert)
}

func TestOnPendingCallback(t *testing.T) {
	m, _, _ := newMonitor(models.AnomalyReading{DO: 6, Turbidity: 2, TDS: 200, ORP: 750})
	var got []Alert
	m.OnPending(func(a Alert) { got = append(got, a) })
	m.Check()
	require.Len(t, got, 1)
	assert.Equal(t, "ORP spike detected!", got[0].Message)
}

func TestRunChecksImmediatelyAndStops(t *testing.T) {
	src := &fixedSource{readings: []models.AnomalyReading{calm}}
	m := NewMonitor(src, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestRandomSourceRanges(t *testing.T) {
	src := NewRandomSource(42)
	for i := 0; i < 500; i++ {
		r := src.Read()
		assert.GreaterOrEqual(t, r.DO, 2.0)
		assert.LessOrEqual(t, r.DO, 8.0)
		assert.GreaterOrEqual(t, r.Turbidity, 0.0)
		assert.LessOrEqual(t, r.Turbidity, 30.0)
		assert.GreaterOrEqual(t, r.TDS, 100.0)
		assert.LessOrEqual(t, r.TDS, 900.0)
		assert.GreaterOrEqual(t, r.ORP, 100.0)
		assert.LessOrEqual(t, r.ORP, 1000.0)
		assert.Equal(t, r.TDS, round(r.TDS, 0))
	}
}

func TestNewMonitorDefaultInterval(t *testing.T) {
	m := NewMonitor(&fixedSource{readings: []models.AnomalyReading{calm}}, nil, 0)
	assert.Equal(t, DefaultInterval, m.interval)
}
