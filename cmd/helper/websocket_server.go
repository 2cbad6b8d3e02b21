package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// driverRoom tracks connected driver sockets.
type driverRoom struct {
	logger *Logger

	mu    sync.Mutex
	conns map[string]*websocket.Conn // keyed by driver id
}

func newDriverRoom(logger *Logger) *driverRoom {
	return &driverRoom{logger: logger, conns: make(map[string]*websocket.Conn)}
}

func (r *driverRoom) handleDriverWebSocket(w http.ResponseWriter, req *http.Request) {
	driverID := req.PathValue("driver_id")
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("upgrade failed for %s: %v", driverID, err)
		return
	}

	// first frame must be the auth message
	var auth struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&auth); err != nil || auth.Type != "auth" || auth.Token == "" {
		r.logger.Warn("driver %s failed auth handshake", driverID)
		conn.Close()
		return
	}

	r.mu.Lock()
	if old, ok := r.conns[driverID]; ok {
		old.Close()
	}
	r.conns[driverID] = conn
	r.mu.Unlock()
	r.logger.WebSocket("driver %s joined the room", driverID)

	// drain the socket so close frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		r.mu.Lock()
		if r.conns[driverID] == conn {
			delete(r.conns, driverID)
		}
		r.mu.Unlock()
		conn.Close()
		r.logger.WebSocket("driver %s left the room", driverID)
	}()
}

func (r *driverRoom) broadcast(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, conn := range r.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			r.logger.Warn("write to driver %s failed: %v", id, err)
		}
	}
}

func (r *driverRoom) pushOfferCreated(rec *offerRecord) {
	r.broadcast(map[string]interface{}{
		"type":            "offer_created",
		"message_id":      uuid.NewString(),
		"order_id":        rec.OrderID,
		"distance_km":     rec.DistanceKm,
		"offered_at":      rec.OfferedAt.Format(time.RFC3339),
		"timeout_seconds": rec.TimeoutSeconds,
	})
}

func (r *driverRoom) pushOfferTaken(rec *offerRecord) {
	r.broadcast(map[string]interface{}{
		"type":       "offer_taken",
		"message_id": uuid.NewString(),
		"order_id":   rec.OrderID,
	})
}
