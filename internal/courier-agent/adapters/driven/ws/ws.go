package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	websocketdto "courier-agent/internal/courier-agent/core/domain/websocket_dto"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/mylogger"

	"github.com/gorilla/websocket"
)

// EventChannel joins the driver room over a websocket. The connection is
// scoped to room membership: dialed on join, closed when the subscription
// is closed. No connection state outlives the subscription value.
type EventChannel struct {
	baseURL string
	token   string
	log     mylogger.Logger

	mu  sync.Mutex
	sub *subscription
}

var _ driven.IEventChannel = (*EventChannel)(nil)

func NewEventChannel(baseURL, token string, log mylogger.Logger) *EventChannel {
	return &EventChannel{
		baseURL: baseURL,
		token:   token,
		log:     log,
	}
}

func (e *EventChannel) JoinDriverRoom(ctx context.Context, driverID string) (driven.ISubscription, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// a stale membership is released before a new one is acquired
	if e.sub != nil {
		_ = e.sub.Close()
		e.sub = nil
	}

	url := fmt.Sprintf("%s/%s", e.baseURL, driverID)
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to event channel: %w", err)
	}

	authMsg := websocketdto.AuthMessage{
		WebSocketMessage: websocketdto.WebSocketMessage{Type: websocketdto.MessageTypeAuth},
		Token:            e.token,
	}
	if err := conn.WriteJSON(authMsg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sending auth message: %w", err)
	}

	sub := &subscription{
		conn:   conn,
		events: make(chan driven.Event, 16),
		log:    e.log,
	}
	go sub.readLoop()

	e.sub = sub
	e.log.Action("event_channel").Info("driver room joined", "driver_id", driverID)
	return sub, nil
}

func (e *EventChannel) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sub != nil {
		err := e.sub.Close()
		e.sub = nil
		return err
	}
	return nil
}

// subscription is one driver-room membership. Closing it tears the
// connection down and ends the read loop; Close is idempotent.
type subscription struct {
	conn   *websocket.Conn
	events chan driven.Event
	log    mylogger.Logger
	once   sync.Once
}

var _ driven.ISubscription = (*subscription)(nil)

func (s *subscription) Events() <-chan driven.Event {
	return s.events
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		deadline := time.Now().Add(time.Second)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = s.conn.Close()
	})
	return nil
}

func (s *subscription) readLoop() {
	defer close(s.events)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			// closed membership or dropped connection, either way we are done
			return
		}

		var base websocketdto.WebSocketMessage
		if err := json.Unmarshal(payload, &base); err != nil {
			s.log.Action("event_channel").Warn("unparseable event dropped")
			continue
		}

		switch base.Type {
		case websocketdto.MessageTypeOfferCreated:
			var msg websocketdto.OfferCreatedMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				s.log.Action("event_channel").Warn("bad offer_created payload dropped")
				continue
			}
			s.events <- driven.Event{
				Type:           driven.EventOfferCreated,
				OrderID:        msg.OrderID,
				DistanceKm:     msg.DistanceKm,
				TimeoutSeconds: msg.TimeoutSeconds,
			}
		case websocketdto.MessageTypeOfferTaken:
			var msg websocketdto.OfferTakenMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				s.log.Action("event_channel").Warn("bad offer_taken payload dropped")
				continue
			}
			s.events <- driven.Event{
				Type:    driven.EventOfferTaken,
				OrderID: msg.OrderID,
			}
		case websocketdto.MessageTypePing:
			pong := websocketdto.WebSocketMessage{Type: websocketdto.MessageTypePong}
			if data, err := json.Marshal(pong); err == nil {
				_ = s.conn.WriteMessage(websocket.TextMessage, data)
			}
		case websocketdto.MessageTypeError:
			var msg websocketdto.ErrorMessage
			_ = json.Unmarshal(payload, &msg)
			s.log.Action("event_channel").Warn("server error event", "code", msg.ErrorCode, "error", msg.ErrorMessage)
		}
	}
}
