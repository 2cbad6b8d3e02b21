package handlers

import (
	"sync"
	"time"

	"courier-agent/internal/courier-agent/core/domain/dto"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/mylogger"
)

const (
	UiEventGpsAlert   = "gps_alert"
	UiEventNotice     = "notice"
	UiEventNavigate   = "navigate_to_delivery"
	UiEventRefreshNew = "refresh_order_pool"
)

// feed keeps at most this many undelivered events, oldest dropped first.
const feedCap = 64

// FeedNotifier queues user-facing signals for the UI shell, which drains
// them through GET /events. Calls never block the services.
type FeedNotifier struct {
	log mylogger.Logger

	mu     sync.Mutex
	events []dto.UiEvent
}

var _ driven.INotifier = (*FeedNotifier)(nil)

func NewFeedNotifier(log mylogger.Logger) *FeedNotifier {
	return &FeedNotifier{log: log.Action("ui_feed")}
}

func (f *FeedNotifier) GpsAlert(kind driven.GpsAlertKind) {
	text := "Turn on the location service to keep receiving orders"
	if kind == driven.GpsAlertPermissionDenied {
		text = "Grant the location permission to keep receiving orders"
	}
	f.push(dto.UiEvent{Type: UiEventGpsAlert, Text: text})
}

func (f *FeedNotifier) Notice(text string) {
	f.push(dto.UiEvent{Type: UiEventNotice, Text: text})
}

func (f *FeedNotifier) NavigateToDelivery(orderID string) {
	f.push(dto.UiEvent{Type: UiEventNavigate, Order_id: orderID})
}

func (f *FeedNotifier) RefreshOrderPool() {
	f.push(dto.UiEvent{Type: UiEventRefreshNew})
}

// Drain returns all queued events and empties the feed.
func (f *FeedNotifier) Drain() []dto.UiEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.events
	f.events = nil
	return out
}

func (f *FeedNotifier) push(ev dto.UiEvent) {
	ev.At = time.Now()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) >= feedCap {
		f.events = f.events[1:]
	}
	f.events = append(f.events, ev)
	f.log.Debug("queued", "type", ev.Type)
}
