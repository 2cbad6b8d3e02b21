package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/mylogger"
)

func testLogger(t *testing.T) mylogger.Logger {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not reached within %v", timeout)
}

type fakePositions struct {
	mu     sync.Mutex
	sample model.PositionSample
	err    error
	calls  int
}

func (f *fakePositions) AcquirePosition(ctx context.Context) (model.PositionSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return model.PositionSample{}, f.err
	}
	return f.sample, nil
}

func (f *fakePositions) set(sample model.PositionSample, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sample = sample
	f.err = err
}

func (f *fakePositions) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeGeocoder struct {
	mu    sync.Mutex
	name  string
	err   error
	calls int
}

func (f *fakeGeocoder) ResolvePlaceName(ctx context.Context, lat, lon float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.name, f.err
}

func (f *fakeGeocoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBackend struct {
	mu            sync.Mutex
	reports       int
	heartbeats    int
	accepts       []string
	rejects       []string
	acceptErr     error
	rejectErr     error
	reportErr     error
	pendingOffers []model.AssignmentOffer
	pendingErr    error
	pendingCalls  int
}

func (f *fakeBackend) ReportPosition(ctx context.Context, sample model.PositionSample, placeName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports++
	return f.reportErr
}

func (f *fakeBackend) SendHeartbeat(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartbeats++
	return nil
}

func (f *fakeBackend) AcceptOffer(ctx context.Context, orderID string, current model.PositionSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepts = append(f.accepts, orderID)
	return f.acceptErr
}

func (f *fakeBackend) RejectOffer(ctx context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejects = append(f.rejects, orderID)
	return f.rejectErr
}

func (f *fakeBackend) GetPendingOffers(ctx context.Context) ([]model.AssignmentOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingCalls++
	return f.pendingOffers, f.pendingErr
}

func (f *fakeBackend) reportCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reports
}

func (f *fakeBackend) heartbeatCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heartbeats
}

func (f *fakeBackend) acceptedOrders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.accepts...)
}

func (f *fakeBackend) rejectedOrders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rejects...)
}

type fakeNotifier struct {
	mu        sync.Mutex
	alerts    []driven.GpsAlertKind
	notices   []string
	navigated []string
	refreshes int
}

func (f *fakeNotifier) GpsAlert(kind driven.GpsAlertKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, kind)
}

func (f *fakeNotifier) Notice(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, text)
}

func (f *fakeNotifier) NavigateToDelivery(orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, orderID)
}

func (f *fakeNotifier) RefreshOrderPool() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

func (f *fakeNotifier) alertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

func (f *fakeNotifier) alertKinds() []driven.GpsAlertKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]driven.GpsAlertKind(nil), f.alerts...)
}

func (f *fakeNotifier) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func (f *fakeNotifier) noticeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notices)
}

func (f *fakeNotifier) navigatedOrders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.navigated...)
}

type fakeSubscription struct {
	ch     chan driven.Event
	once   sync.Once
	closed bool
	mu     sync.Mutex
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{ch: make(chan driven.Event, 8)}
}

func (f *fakeSubscription) Events() <-chan driven.Event { return f.ch }

func (f *fakeSubscription) Close() error {
	f.once.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		close(f.ch)
	})
	return nil
}

func (f *fakeSubscription) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeEventChannel struct {
	mu    sync.Mutex
	sub   *fakeSubscription
	joins int
}

func (f *fakeEventChannel) JoinDriverRoom(ctx context.Context, driverID string) (driven.ISubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins++
	f.sub = newFakeSubscription()
	return f.sub, nil
}

func (f *fakeEventChannel) Close() error { return nil }

func (f *fakeEventChannel) joinCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.joins
}

func (f *fakeEventChannel) current() *fakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sub
}
