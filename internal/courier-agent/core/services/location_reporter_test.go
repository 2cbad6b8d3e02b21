package services

import (
	"context"
	"testing"
	"time"

	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/myerrors"
	"courier-agent/internal/courier-agent/core/ports/driven"
)

func newTestReporter(t *testing.T, positions *fakePositions, backend *fakeBackend, notifier *fakeNotifier) *LocationReporter {
	t.Helper()
	log := testLogger(t)
	geocoder := NewCachedGeocoder(&fakeGeocoder{name: "Abay Avenue 12"}, log)
	intervals := model.ReportIntervals{
		Idle:     15 * time.Millisecond,
		Delivery: 5 * time.Millisecond,
	}
	reporter := NewLocationReporter(context.Background(), positions, geocoder, backend, notifier, log, intervals)
	t.Cleanup(reporter.Stop)
	return reporter
}

func TestReporterIdleSendsHeartbeatAndReports(t *testing.T) {
	positions := &fakePositions{sample: model.PositionSample{Latitude: 43.238, Longitude: 76.889}}
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeActiveIdle)

	waitFor(t, time.Second, func() bool { return backend.reportCount() >= 2 })
	if got := backend.heartbeatCount(); got != 1 {
		t.Errorf("heartbeats = %d, want 1", got)
	}
	sample, place, ok := reporter.LastKnown()
	if !ok {
		t.Fatal("no last known sample after reports")
	}
	if sample.Latitude != 43.238 {
		t.Errorf("last known latitude = %v", sample.Latitude)
	}
	if place != "Abay Avenue 12" {
		t.Errorf("last known place = %q", place)
	}
}

func TestReporterInactiveStopsReporting(t *testing.T) {
	positions := &fakePositions{sample: model.PositionSample{Latitude: 1, Longitude: 2}}
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeOnDelivery)
	waitFor(t, time.Second, func() bool { return backend.reportCount() >= 1 })

	reporter.SetMode(model.ModeInactive)
	settled := backend.reportCount()
	time.Sleep(40 * time.Millisecond)
	if got := backend.reportCount(); got != settled {
		t.Errorf("reports after going inactive: %d, was %d", got, settled)
	}
	if reporter.Mode() != model.ModeInactive {
		t.Errorf("mode = %v, want INACTIVE", reporter.Mode())
	}
}

func TestReporterModeSwitchKeepsSingleSchedule(t *testing.T) {
	positions := &fakePositions{sample: model.PositionSample{Latitude: 1, Longitude: 2}}
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeActiveIdle)
	waitFor(t, time.Second, func() bool { return backend.reportCount() >= 1 })

	// the switch must not fire an extra immediate report within the
	// duplicate-suppression window
	before := backend.reportCount()
	reporter.SetMode(model.ModeOnDelivery)
	time.Sleep(2 * time.Millisecond)
	if got := backend.reportCount(); got > before {
		t.Errorf("immediate report fired right after mode switch: %d > %d", got, before)
	}

	waitFor(t, time.Second, func() bool { return backend.reportCount() >= before+2 })

	reporter.Stop()
	settled := backend.reportCount()
	time.Sleep(40 * time.Millisecond)
	if got := backend.reportCount(); got != settled {
		t.Errorf("reports after Stop: %d, was %d", got, settled)
	}
}

func TestReporterSameModeIsNoOp(t *testing.T) {
	positions := &fakePositions{sample: model.PositionSample{Latitude: 1, Longitude: 2}}
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeActiveIdle)
	waitFor(t, time.Second, func() bool { return backend.heartbeatCount() == 1 })

	reporter.SetMode(model.ModeActiveIdle)
	time.Sleep(30 * time.Millisecond)
	if got := backend.heartbeatCount(); got != 1 {
		t.Errorf("heartbeats after repeated SetMode = %d, want 1", got)
	}
}

func TestReporterHaltsOnGpsUnavailable(t *testing.T) {
	positions := &fakePositions{err: myerrors.ErrGpsUnavailable}
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeActiveIdle)

	waitFor(t, time.Second, func() bool { return reporter.GpsDisabled() })
	waitFor(t, time.Second, func() bool { return notifier.alertCount() == 1 })
	if kinds := notifier.alertKinds(); kinds[0] != driven.GpsAlertServiceDisabled {
		t.Errorf("alert kind = %v, want SERVICE_DISABLED", kinds[0])
	}
	if got := backend.reportCount(); got != 0 {
		t.Errorf("reports while GPS disabled = %d, want 0", got)
	}

	// mode changes while disabled must not restart the schedule or alert again
	reporter.SetMode(model.ModeOnDelivery)
	time.Sleep(30 * time.Millisecond)
	if got := positions.callCount(); got != 1 {
		t.Errorf("acquisitions after halt = %d, want 1", got)
	}
	if got := notifier.alertCount(); got != 1 {
		t.Errorf("alerts = %d, want exactly 1 per episode", got)
	}
}

func TestReporterPermissionDeniedAlertKind(t *testing.T) {
	positions := &fakePositions{err: myerrors.ErrPermissionDenied}
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeOnDelivery)

	waitFor(t, time.Second, func() bool { return notifier.alertCount() == 1 })
	if kinds := notifier.alertKinds(); kinds[0] != driven.GpsAlertPermissionDenied {
		t.Errorf("alert kind = %v, want PERMISSION_DENIED", kinds[0])
	}
}

func TestReporterRetryGpsRestartsSchedule(t *testing.T) {
	positions := &fakePositions{err: myerrors.ErrGpsUnavailable}
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeOnDelivery)
	waitFor(t, time.Second, func() bool { return reporter.GpsDisabled() })

	positions.set(model.PositionSample{Latitude: 51.1, Longitude: 71.4}, nil)
	reporter.RetryGps()

	waitFor(t, time.Second, func() bool { return backend.reportCount() >= 1 })
	if reporter.GpsDisabled() {
		t.Error("gps still flagged disabled after successful retry")
	}

	// a fresh failure episode alerts again
	positions.set(model.PositionSample{}, myerrors.ErrGpsUnavailable)
	waitFor(t, time.Second, func() bool { return notifier.alertCount() == 2 })
}

func TestReporterTransientAcquireFailureKeepsSchedule(t *testing.T) {
	positions := &fakePositions{err: myerrors.ErrNetworkTransient}
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeOnDelivery)

	waitFor(t, time.Second, func() bool { return positions.callCount() >= 3 })
	if reporter.GpsDisabled() {
		t.Error("transient failure must not set the disabled flag")
	}
	if got := notifier.alertCount(); got != 0 {
		t.Errorf("alerts on transient failure = %d, want 0", got)
	}
}

func TestReporterSwallowsSendFailures(t *testing.T) {
	positions := &fakePositions{sample: model.PositionSample{Latitude: 1, Longitude: 2}}
	backend := &fakeBackend{reportErr: myerrors.ErrNetworkTransient}
	notifier := &fakeNotifier{}
	reporter := newTestReporter(t, positions, backend, notifier)

	reporter.SetMode(model.ModeOnDelivery)

	// schedule keeps ticking through failed sends
	waitFor(t, time.Second, func() bool { return backend.reportCount() >= 3 })
	if got := notifier.noticeCount(); got != 0 {
		t.Errorf("user notices for failed reports = %d, want 0", got)
	}
}
