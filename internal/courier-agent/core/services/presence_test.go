package services

import (
	"context"
	"testing"
	"time"

	"courier-agent/internal/courier-agent/core/domain/model"
)

func newTestPresence(t *testing.T, backend *fakeBackend, events *fakeEventChannel, notifier *fakeNotifier) *PresenceService {
	t.Helper()
	log := testLogger(t)
	positions := &fakePositions{sample: model.PositionSample{Latitude: 43.2, Longitude: 76.9}}
	geocoder := NewCachedGeocoder(&fakeGeocoder{name: "test"}, log)
	intervals := model.ReportIntervals{Idle: 20 * time.Millisecond, Delivery: 10 * time.Millisecond}
	reporter := NewLocationReporter(context.Background(), positions, geocoder, backend, notifier, log, intervals)
	t.Cleanup(reporter.Stop)
	coordinator := NewOfferCoordinator(context.Background(), backend, events, notifier, reporter, log, 3*time.Millisecond, 5)
	t.Cleanup(coordinator.Unsubscribe)
	return NewPresenceService(reporter, coordinator, log, "driver-1")
}

func TestPresenceDrivesModeAndRoomMembership(t *testing.T) {
	backend := &fakeBackend{}
	events := &fakeEventChannel{}
	notifier := &fakeNotifier{}
	p := newTestPresence(t, backend, events, notifier)

	if p.Mode() != model.ModeInactive {
		t.Fatalf("initial mode = %v, want INACTIVE", p.Mode())
	}

	if err := p.SetPresence(context.Background(), true, false); err != nil {
		t.Fatalf("go available: %v", err)
	}
	if p.Mode() != model.ModeActiveIdle {
		t.Errorf("mode = %v, want ACTIVE_IDLE", p.Mode())
	}
	if got := events.joinCount(); got != 1 {
		t.Errorf("room joins = %d, want 1", got)
	}
	waitFor(t, time.Second, func() bool { return backend.heartbeatCount() == 1 })

	if err := p.SetPresence(context.Background(), true, true); err != nil {
		t.Fatalf("start delivery: %v", err)
	}
	if p.Mode() != model.ModeOnDelivery {
		t.Errorf("mode = %v, want ON_DELIVERY", p.Mode())
	}
	// still available, membership unchanged
	if got := events.joinCount(); got != 1 {
		t.Errorf("room joins after delivery start = %d, want 1", got)
	}

	if err := p.SetPresence(context.Background(), false, false); err != nil {
		t.Fatalf("go offline: %v", err)
	}
	if p.Mode() != model.ModeInactive {
		t.Errorf("mode = %v, want INACTIVE", p.Mode())
	}
	sub := events.current()
	if sub == nil || !sub.isClosed() {
		t.Error("room subscription not closed when driver went offline")
	}
}

func TestPresenceUnavailableOnDeliveryIsInactive(t *testing.T) {
	backend := &fakeBackend{}
	events := &fakeEventChannel{}
	notifier := &fakeNotifier{}
	p := newTestPresence(t, backend, events, notifier)

	// the on-delivery flag alone means nothing without availability
	if err := p.SetPresence(context.Background(), false, true); err != nil {
		t.Fatalf("set presence: %v", err)
	}
	if p.Mode() != model.ModeInactive {
		t.Errorf("mode = %v, want INACTIVE", p.Mode())
	}
	if got := events.joinCount(); got != 0 {
		t.Errorf("room joins = %d, want 0", got)
	}
}

func TestPresenceRetryGpsDelegates(t *testing.T) {
	backend := &fakeBackend{}
	events := &fakeEventChannel{}
	notifier := &fakeNotifier{}
	p := newTestPresence(t, backend, events, notifier)

	if p.GpsDisabled() {
		t.Fatal("gps flagged disabled on a fresh agent")
	}
	if err := p.RetryGps(context.Background()); err != nil {
		t.Fatalf("retry gps: %v", err)
	}
}
