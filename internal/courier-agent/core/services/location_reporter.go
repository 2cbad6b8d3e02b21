package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/myerrors"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/mylogger"
)

// minCycleGap suppresses the immediate report when a mode switch lands
// right after a completed cycle, so rapid Idle->OnDelivery toggles do not
// fire two reports within the same second.
const minCycleGap = time.Second

// LocationReporter keeps the backend's view of the driver position fresh at
// a cadence chosen by operational mode. All schedule bookkeeping happens
// under one mutex: state changes and timer cancellation are a single step,
// so at most one schedule is ever live.
type LocationReporter struct {
	ctx       context.Context
	positions driven.IPositionProvider
	geocoder  *CachedGeocoder
	backend   driven.IDispatchBackend
	notifier  driven.INotifier
	log       mylogger.Logger
	intervals model.ReportIntervals

	mu          sync.Mutex
	mode        model.OperationalMode
	stopCh      chan struct{}
	gpsDisabled bool
	alerted     bool
	lastCycleAt time.Time
	lastSample  model.PositionSample
	lastPlace   string
	hasSample   bool
}

func NewLocationReporter(
	ctx context.Context,
	positions driven.IPositionProvider,
	geocoder *CachedGeocoder,
	backend driven.IDispatchBackend,
	notifier driven.INotifier,
	log mylogger.Logger,
	intervals model.ReportIntervals,
) *LocationReporter {
	return &LocationReporter{
		ctx:       ctx,
		positions: positions,
		geocoder:  geocoder,
		backend:   backend,
		notifier:  notifier,
		log:       log,
		intervals: intervals,
		mode:      model.ModeInactive,
	}
}

// SetMode retargets the reporting schedule. Same mode twice is a no-op,
// ModeInactive always stops, and while the GPS-disabled flag is set no new
// schedule is installed until RetryGps.
func (r *LocationReporter) SetMode(mode model.OperationalMode) {
	r.mu.Lock()
	if mode == r.mode {
		r.mu.Unlock()
		return
	}
	r.mode = mode
	r.stopLocked()

	if mode == model.ModeInactive || r.gpsDisabled {
		r.mu.Unlock()
		return
	}

	stop := make(chan struct{})
	r.stopCh = stop
	interval := r.intervals.For(mode)
	r.mu.Unlock()

	r.log.Action("reporter_mode").Info("reporting schedule started", "mode", string(mode), "interval", interval.String())
	go r.runSchedule(mode, interval, stop)
}

// Mode returns the current operational mode.
func (r *LocationReporter) Mode() model.OperationalMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Stop halts any running schedule. Idempotent.
func (r *LocationReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// GpsDisabled reports whether the disabled flag currently gates scheduling.
func (r *LocationReporter) GpsDisabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gpsDisabled
}

// RetryGps clears the disabled flag and restarts the schedule at the
// interval implied by the current mode.
func (r *LocationReporter) RetryGps() {
	r.mu.Lock()
	r.gpsDisabled = false
	r.alerted = false
	mode := r.mode
	r.stopLocked()

	if mode == model.ModeInactive {
		r.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	r.stopCh = stop
	interval := r.intervals.For(mode)
	r.mu.Unlock()

	r.log.Action("reporter_retry").Info("gps retry requested, schedule restarted", "mode", string(mode))
	go r.runSchedule(mode, interval, stop)
}

// LastKnown returns the most recent sample and its resolved place name.
func (r *LocationReporter) LastKnown() (model.PositionSample, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSample, r.lastPlace, r.hasSample
}

// stopLocked closes the current schedule, if any. Callers hold r.mu.
func (r *LocationReporter) stopLocked() {
	if r.stopCh != nil {
		close(r.stopCh)
		r.stopCh = nil
	}
}

func (r *LocationReporter) runSchedule(mode model.OperationalMode, interval time.Duration, stop chan struct{}) {
	if mode == model.ModeActiveIdle {
		// Heartbeat tells the backend the driver is alive before the
		// first position tick lands.
		if err := r.backend.SendHeartbeat(r.ctx); err != nil {
			r.log.Action("heartbeat").Warn("heartbeat failed", "reason", err.Error())
		} else {
			HeartbeatsTotal.Inc()
		}
	}

	r.mu.Lock()
	immediate := time.Since(r.lastCycleAt) >= minCycleGap
	r.mu.Unlock()
	if immediate {
		if !r.cycle(stop) {
			return
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if !r.cycle(stop) {
				return
			}
		}
	}
}

// cycle runs one acquire-resolve-report pass. It returns false when the
// schedule must halt (GPS failure or cancellation raced us).
func (r *LocationReporter) cycle(stop chan struct{}) bool {
	r.mu.Lock()
	if r.stopCh != stop {
		// a newer schedule replaced us while the tick was in flight
		r.mu.Unlock()
		return false
	}
	r.lastCycleAt = time.Now()
	r.mu.Unlock()

	sample, err := r.positions.AcquirePosition(r.ctx)
	if err != nil {
		switch {
		case errors.Is(err, myerrors.ErrGpsUnavailable):
			r.haltOnGpsFailure(driven.GpsAlertServiceDisabled, stop)
			return false
		case errors.Is(err, myerrors.ErrPermissionDenied):
			r.haltOnGpsFailure(driven.GpsAlertPermissionDenied, stop)
			return false
		default:
			// transient acquisition failure, next tick retries
			r.log.Action("acquire_position").Warn("position acquisition failed", "reason", err.Error())
			PositionReportsTotal.WithLabelValues("acquire_failed").Inc()
			return true
		}
	}

	place := r.geocoder.ResolvePlaceName(r.ctx, sample.Latitude, sample.Longitude)

	r.mu.Lock()
	if r.stopCh != stop {
		// cancelled while the acquisition was in flight, drop the sample
		r.mu.Unlock()
		return false
	}
	r.gpsDisabled = false
	r.lastSample = sample
	r.lastPlace = place
	r.hasSample = true
	r.mu.Unlock()

	// Best effort: a failed report is retried implicitly by the next tick.
	if err := r.backend.ReportPosition(r.ctx, sample, place); err != nil {
		r.log.Action("report_position").Warn("position report failed", "reason", err.Error())
		PositionReportsTotal.WithLabelValues("send_failed").Inc()
		return true
	}
	PositionReportsTotal.WithLabelValues("sent").Inc()
	return true
}

// haltOnGpsFailure sets the disabled flag, stops the schedule and raises
// the user alert exactly once per disable episode.
func (r *LocationReporter) haltOnGpsFailure(kind driven.GpsAlertKind, stop chan struct{}) {
	r.mu.Lock()
	r.gpsDisabled = true
	firstEpisodeFailure := !r.alerted
	r.alerted = true
	if r.stopCh == stop {
		r.stopLocked()
	}
	r.mu.Unlock()

	r.log.Action("gps_halt").Warn("position source unavailable, reporting halted", "kind", string(kind))
	PositionReportsTotal.WithLabelValues("gps_halt").Inc()
	if firstEpisodeFailure {
		r.notifier.GpsAlert(kind)
	}
}
