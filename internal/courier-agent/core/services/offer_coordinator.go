package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/myerrors"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/courier-agent/core/ports/driver"
	"courier-agent/internal/mylogger"
)

type offerState int

const (
	stateIdle offerState = iota
	statePending
	stateResolving
)

// positionReader is the slice of the location reporter the coordinator
// needs when resolving an offer.
type positionReader interface {
	LastKnown() (model.PositionSample, string, bool)
}

// OfferCoordinator holds at most one live assignment offer, drives its
// countdown and resolves it exactly once. A newer inbound offer replaces
// the pending one wholesale: the old timer set is cancelled before the new
// offer is installed, so no orphaned countdown keeps decrementing.
type OfferCoordinator struct {
	ctx              context.Context
	backend          driven.IDispatchBackend
	events           driven.IEventChannel
	notifier         driven.INotifier
	position         positionReader
	log              mylogger.Logger
	tick             time.Duration
	minUsableSeconds int

	mu         sync.Mutex
	state      offerState
	offer      model.AssignmentOffer
	remaining  int
	timersStop chan struct{}
	sub        driven.ISubscription
}

func NewOfferCoordinator(
	ctx context.Context,
	backend driven.IDispatchBackend,
	events driven.IEventChannel,
	notifier driven.INotifier,
	position positionReader,
	log mylogger.Logger,
	tick time.Duration,
	minUsableSeconds int,
) *OfferCoordinator {
	if tick <= 0 {
		tick = time.Second
	}
	return &OfferCoordinator{
		ctx:              ctx,
		backend:          backend,
		events:           events,
		notifier:         notifier,
		position:         position,
		log:              log,
		tick:             tick,
		minUsableSeconds: minUsableSeconds,
	}
}

// Subscribe joins the driver room and reconciles any offer that was pushed
// while the agent was away. Idempotent while a subscription is held.
func (c *OfferCoordinator) Subscribe(driverID string) error {
	c.mu.Lock()
	if c.sub != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	sub, err := c.events.JoinDriverRoom(c.ctx, driverID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()

	c.log.Action("offer_subscribe").Info("joined driver room", "driver_id", driverID)
	go c.consume(sub)
	go c.reconcile()
	return nil
}

// Unsubscribe leaves the driver room and discards any pending offer
// together with its timers. Idempotent.
func (c *OfferCoordinator) Unsubscribe() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	if c.state != stateIdle {
		c.clearLocked("unsubscribed")
	}
	c.mu.Unlock()

	if sub != nil {
		_ = sub.Close()
		c.log.Action("offer_unsubscribe").Info("left driver room")
	}
}

func (c *OfferCoordinator) consume(sub driven.ISubscription) {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			OfferEventsTotal.WithLabelValues(ev.Type).Inc()
			switch ev.Type {
			case driven.EventOfferCreated:
				c.install(model.AssignmentOffer{
					OrderID:        ev.OrderID,
					DistanceKm:     ev.DistanceKm,
					OfferedAt:      time.Now(),
					TimeoutSeconds: ev.TimeoutSeconds,
				})
			case driven.EventOfferTaken:
				c.handleOfferTaken(ev.OrderID)
			}
		}
	}
}

// reconcile asks the backend for an offer that may already be outstanding.
// An offer with less than the usability threshold remaining is treated as
// expired and never surfaced.
func (c *OfferCoordinator) reconcile() {
	offers, err := c.backend.GetPendingOffers(c.ctx)
	if err != nil {
		c.log.Action("offer_reconcile").Warn("pending offer query failed", "reason", err.Error())
		return
	}
	now := time.Now()
	for _, offer := range offers {
		if !offer.Usable(now, c.minUsableSeconds) {
			continue
		}
		c.install(offer)
		return
	}
}

// install makes the offer the single live one. Cancelling the previous
// timer set and storing the new offer happen under one mutex hold, so a
// reconciled copy racing a fresh push for the same order can never leave
// two countdowns running.
func (c *OfferCoordinator) install(offer model.AssignmentOffer) {
	remaining := offer.RemainingAt(time.Now())
	if remaining <= 0 {
		return
	}

	c.mu.Lock()
	if c.state != stateIdle {
		OffersResolvedTotal.WithLabelValues("replaced").Inc()
	}
	c.cancelTimersLocked()
	c.offer = offer
	c.remaining = remaining
	c.state = statePending
	stop := make(chan struct{})
	c.timersStop = stop
	c.mu.Unlock()

	c.log.Action("offer_pending").Info("assignment offer live",
		"order_id", offer.OrderID, "distance_km", offer.DistanceKm, "remaining_s", remaining)
	go c.runCountdown(stop)
}

// runCountdown decrements the decision window once per tick. Reaching zero
// is a purely local transition: the server expires and reassigns offers on
// its own, so no backend call is made.
func (c *OfferCoordinator) runCountdown(stop chan struct{}) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.timersStop != stop || c.state != statePending {
				c.mu.Unlock()
				return
			}
			c.remaining--
			if c.remaining > 0 {
				c.mu.Unlock()
				continue
			}
			orderID := c.offer.OrderID
			c.clearLocked("expired_local")
			c.mu.Unlock()

			c.log.Action("offer_expired").Info("offer expired locally", "order_id", orderID)
			c.notifier.RefreshOrderPool()
			return
		}
	}
}

// handleOfferTaken clears the pending offer when another driver claimed it.
func (c *OfferCoordinator) handleOfferTaken(orderID string) {
	c.mu.Lock()
	if c.state == stateIdle || c.offer.OrderID != orderID {
		c.mu.Unlock()
		return
	}
	c.clearLocked("taken_by_other")
	c.mu.Unlock()

	c.log.Action("offer_taken").Info("offer taken by another driver", "order_id", orderID)
}

// Accept resolves the pending offer. Whatever the backend answers, local
// offer state is cleared: a stale offer would block new ones, and a pool
// refresh re-surfaces the true state.
func (c *OfferCoordinator) Accept(ctx context.Context) error {
	c.mu.Lock()
	if c.state != statePending {
		c.mu.Unlock()
		return myerrors.ErrNoPendingOffer
	}
	offer := c.offer
	c.state = stateResolving
	c.cancelTimersLocked()
	c.mu.Unlock()

	sample, _, _ := c.position.LastKnown()
	err := c.backend.AcceptOffer(ctx, offer.OrderID, sample)

	c.mu.Lock()
	if c.state != stateResolving || c.offer.OrderID != offer.OrderID {
		// a race event cleared or replaced the offer mid-call: no-op
		c.mu.Unlock()
		return nil
	}

	switch {
	case err == nil:
		c.clearLocked("accepted")
		c.mu.Unlock()
		c.log.Action("offer_accept").Info("offer accepted", "order_id", offer.OrderID)
		c.notifier.NavigateToDelivery(offer.OrderID)
	case errors.Is(err, myerrors.ErrOfferTaken), errors.Is(err, myerrors.ErrOfferExpired):
		// losing the race is an expected outcome, not an alarm
		c.clearLocked("lost_race")
		c.mu.Unlock()
		c.log.Action("offer_accept").Info("offer lost to another driver", "order_id", offer.OrderID)
		c.notifier.Notice("The order was taken by another driver")
		c.notifier.RefreshOrderPool()
	default:
		c.clearLocked("accept_failed")
		c.mu.Unlock()
		c.log.Action("offer_accept").Warn("accept failed", "order_id", offer.OrderID, "reason", err.Error())
		c.notifier.Notice("Could not confirm the order, refreshing available orders")
		c.notifier.RefreshOrderPool()
	}
	return nil
}

// Reject resolves the pending offer negatively. The reject call is best
// effort: its failure is swallowed and the offer is cleared regardless.
func (c *OfferCoordinator) Reject(ctx context.Context) error {
	c.mu.Lock()
	if c.state != statePending {
		c.mu.Unlock()
		return myerrors.ErrNoPendingOffer
	}
	offer := c.offer
	c.state = stateResolving
	c.cancelTimersLocked()
	c.mu.Unlock()

	if err := c.backend.RejectOffer(ctx, offer.OrderID); err != nil {
		c.log.Action("offer_reject").Warn("reject call failed", "order_id", offer.OrderID, "reason", err.Error())
	}

	c.mu.Lock()
	if c.state == stateResolving && c.offer.OrderID == offer.OrderID {
		c.clearLocked("rejected")
	}
	c.mu.Unlock()

	c.log.Action("offer_reject").Info("offer rejected", "order_id", offer.OrderID)
	c.notifier.RefreshOrderPool()
	return nil
}

// Pending returns the UI snapshot of the live offer.
func (c *OfferCoordinator) Pending() (driver.OfferSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != statePending {
		return driver.OfferSnapshot{}, false
	}
	return driver.OfferSnapshot{
		Order_id:         c.offer.OrderID,
		DistanceKm:       c.offer.DistanceKm,
		RemainingSeconds: c.remaining,
		TotalSeconds:     c.offer.TimeoutSeconds,
	}, true
}

// clearLocked drops the offer and its timer set as one step. Callers hold
// c.mu.
func (c *OfferCoordinator) clearLocked(outcome string) {
	c.cancelTimersLocked()
	c.state = stateIdle
	c.offer = model.AssignmentOffer{}
	c.remaining = 0
	OffersResolvedTotal.WithLabelValues(outcome).Inc()
}

func (c *OfferCoordinator) cancelTimersLocked() {
	if c.timersStop != nil {
		close(c.timersStop)
		c.timersStop = nil
	}
}
