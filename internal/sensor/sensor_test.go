package sensor

import (
	"testing"
	"time"

	"github.com/lumen-home/lumen-core/internal/infrastructure/mqtt"
)

// fakeSubscriber records handlers so tests can inject payloads.
type fakeSubscriber struct {
	handlers map[string]mqtt.MessageHandler
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{handlers: make(map[string]mqtt.MessageHandler)}
}

func (f *fakeSubscriber) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	f.handlers[topic] = handler
	return nil
}

func (f *fakeSubscriber) publish(t *testing.T, topic, payload string) {
	t.Helper()
	h, ok := f.handlers[topic]
	if !ok {
		t.Fatalf("no subscription for %s", topic)
	}
	if err := h(topic, []byte(payload)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

var testTopics = Topics{
	Lux:       "sensors/outdoor/lux",
	Weather:   "sensors/outdoor/weather",
	Elevation: "sensors/sun/elevation",
	Alarm:     "sensors/alarm/next",
}

func newTestCache(t *testing.T, clock func() time.Time) (*Cache, *fakeSubscriber) {
	t.Helper()

	c := NewCache(15 * time.Minute)
	c.now = clock
	sub := newFakeSubscriber()
	if err := c.Start(sub, testTopics); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return c, sub
}

func TestCacheReadings(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	c, sub := newTestCache(t, func() time.Time { return now })

	if c.Lux() != nil || c.Weather() != nil || c.Elevation() != nil {
		t.Fatal("readings available before any message")
	}

	sub.publish(t, testTopics.Lux, "1200.5")
	sub.publish(t, testTopics.Weather, "cloudy")
	sub.publish(t, testTopics.Elevation, "-2.3")

	if lux := c.Lux(); lux == nil || *lux != 1200.5 {
		t.Errorf("Lux = %v, want 1200.5", lux)
	}
	if w := c.Weather(); w == nil || *w != "cloudy" {
		t.Errorf("Weather = %v, want cloudy", w)
	}
	if e := c.Elevation(); e == nil || *e != -2.3 {
		t.Errorf("Elevation = %v, want -2.3", e)
	}
}

func TestCacheStaleness(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	c, sub := newTestCache(t, func() time.Time { return now })

	sub.publish(t, testTopics.Lux, "500")

	// Fresh inside the window.
	now = now.Add(10 * time.Minute)
	if c.Lux() == nil {
		t.Fatal("reading stale inside window")
	}

	// Unavailable past it.
	now = now.Add(10 * time.Minute)
	if c.Lux() != nil {
		t.Fatal("stale reading still served")
	}

	// A new message revives it.
	sub.publish(t, testTopics.Lux, "480")
	if lux := c.Lux(); lux == nil || *lux != 480 {
		t.Errorf("Lux after refresh = %v, want 480", lux)
	}
}

func TestCacheUnparseablePayloads(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	c, sub := newTestCache(t, func() time.Time { return now })

	sub.publish(t, testTopics.Lux, "bright-ish")
	if c.Lux() != nil {
		t.Error("unparseable lux served as a value")
	}

	sub.publish(t, testTopics.Elevation, "")
	if c.Elevation() != nil {
		t.Error("empty elevation served as a value")
	}
}

func TestCacheNextAlarm(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	c, sub := newTestCache(t, func() time.Time { return now })

	if !c.NextAlarm().IsZero() {
		t.Fatal("alarm set before any message")
	}

	sub.publish(t, testTopics.Alarm, "2026-03-11T07:00:00Z")
	want := time.Date(2026, time.March, 11, 7, 0, 0, 0, time.UTC)
	if got := c.NextAlarm(); !got.Equal(want) {
		t.Errorf("NextAlarm = %v, want %v", got, want)
	}

	// Unix seconds also accepted.
	sub.publish(t, testTopics.Alarm, "1780000000")
	if got := c.NextAlarm(); got.Unix() != 1780000000 {
		t.Errorf("NextAlarm unix = %v", got)
	}

	// Alarms outlive the staleness window; they describe the future.
	now = now.Add(3 * time.Hour)
	if c.NextAlarm().IsZero() {
		t.Error("alarm dropped by staleness window")
	}

	// "none" clears it.
	sub.publish(t, testTopics.Alarm, "none")
	if !c.NextAlarm().IsZero() {
		t.Error("cleared alarm still scheduled")
	}
}
