package bm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventChannel delivers dispatch events over RabbitMQ. Every driver gets
// its own queue bound to the dispatch exchange; leaving the room unbinds
// the queue so stale offers stop accumulating.
type EventChannel struct {
	broker driven.IEventBroker
	log    mylogger.Logger

	mu  sync.Mutex
	sub *brokerSubscription
}

var _ driven.IEventChannel = (*EventChannel)(nil)

func NewEventChannel(broker driven.IEventBroker, log mylogger.Logger) *EventChannel {
	return &EventChannel{broker: broker, log: log.Action("amqp_events")}
}

func (e *EventChannel) JoinDriverRoom(ctx context.Context, driverID string) (driven.ISubscription, error) {
	e.mu.Lock()
	if e.sub != nil {
		old := e.sub
		e.sub = nil
		e.mu.Unlock()
		_ = old.Close()
		e.mu.Lock()
	}
	defer e.mu.Unlock()

	queueName := fmt.Sprintf("driver.offers.%s", driverID)
	bindingKey := fmt.Sprintf("driver.%s.offers", driverID)

	subctx, cancel := context.WithCancel(ctx)
	deliveries, err := e.broker.Consume(subctx, queueName, bindingKey, driven.ConsumeOptions{
		Prefetch:     1,
		AutoAck:      false,
		QueueDurable: false,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("consume %s: %w", queueName, err)
	}

	sub := &brokerSubscription{
		broker:     e.broker,
		queueName:  queueName,
		bindingKey: bindingKey,
		cancel:     cancel,
		events:     make(chan driven.Event, 16),
		log:        e.log,
	}
	e.sub = sub
	go sub.pump(deliveries)
	return sub, nil
}

func (e *EventChannel) Close() error {
	e.mu.Lock()
	sub := e.sub
	e.sub = nil
	e.mu.Unlock()
	if sub != nil {
		_ = sub.Close()
	}
	return e.broker.Close()
}

type brokerSubscription struct {
	broker     driven.IEventBroker
	queueName  string
	bindingKey string
	cancel     context.CancelFunc
	events     chan driven.Event
	log        mylogger.Logger
	once       sync.Once
}

func (s *brokerSubscription) Events() <-chan driven.Event { return s.events }

func (s *brokerSubscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		if err := s.broker.Unbind(s.queueName, s.bindingKey); err != nil {
			s.log.Warn("unbind failed", "queue", s.queueName, "error", err.Error())
		}
	})
	return nil
}

// amqpEvent is the wire shape dispatch publishes to driver queues.
type amqpEvent struct {
	Type           string  `json:"type"`
	OrderID        string  `json:"order_id"`
	DistanceKm     float64 `json:"distance_km"`
	TimeoutSeconds int     `json:"timeout_seconds"`
}

func (s *brokerSubscription) pump(deliveries <-chan amqp.Delivery) {
	defer close(s.events)
	for m := range deliveries {
		var ev amqpEvent
		if err := json.Unmarshal(m.Body, &ev); err != nil {
			s.log.Warn("bad event payload", "error", err.Error())
			_ = m.Nack(false, false)
			continue
		}
		switch ev.Type {
		case driven.EventOfferCreated, driven.EventOfferTaken:
			s.events <- driven.Event{
				Type:           ev.Type,
				OrderID:        ev.OrderID,
				DistanceKm:     ev.DistanceKm,
				TimeoutSeconds: ev.TimeoutSeconds,
			}
		default:
			s.log.Debug("ignoring event", "type", ev.Type)
		}
		_ = m.Ack(false)
	}
}
