package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Stub dispatch backend for exercising the agent on a laptop: serves the
// REST surface the agent reports to and pushes assignment offers over the
// driver websocket room.
func main() {
	port := flag.Int("port", 3000, "listen port")
	pushInterval := flag.Duration("push-interval", OfferPushInterval, "how often to push a new offer")
	flag.Parse()

	logger := &Logger{}
	store := newDispatchStore()
	room := newDriverRoom(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/drivers/{driver_id}", room.handleDriverWebSocket)

	mux.HandleFunc("POST /drivers/{driver_id}/location", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			PlaceName string  `json:"place_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		logger.HTTP("location from %s: %.6f, %.6f (%s)", r.PathValue("driver_id"), body.Latitude, body.Longitude, body.PlaceName)
		writeJSON(w, http.StatusOK, map[string]string{
			"coordinate_id": uuid.NewString(),
			"updated_at":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("POST /drivers/{driver_id}/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		logger.HTTP("heartbeat from %s", r.PathValue("driver_id"))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /drivers/{driver_id}/offers", func(w http.ResponseWriter, r *http.Request) {
		pending := store.pending()
		offers := make([]map[string]interface{}, 0, len(pending))
		for _, rec := range pending {
			offers = append(offers, map[string]interface{}{
				"order_id":        rec.OrderID,
				"distance_km":     rec.DistanceKm,
				"offered_at":      rec.OfferedAt.Format(time.RFC3339),
				"timeout_seconds": rec.TimeoutSeconds,
			})
		}
		logger.HTTP("pending offers for %s: %d", r.PathValue("driver_id"), len(offers))
		writeJSON(w, http.StatusOK, map[string]interface{}{"offers": offers})
	})

	mux.HandleFunc("POST /drivers/{driver_id}/offers/{order_id}/resolve", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Accepted bool `json:"accepted"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		driverID := r.PathValue("driver_id")
		orderID := r.PathValue("order_id")
		switch store.resolve(orderID, driverID, body.Accepted) {
		case resolveOK:
			logger.HTTP("driver %s resolved %s accepted=%v", driverID, orderID, body.Accepted)
			writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID, "status": "resolved"})
		case resolveConflict:
			logger.HTTP("driver %s lost the race for %s", driverID, orderID)
			writeJSON(w, http.StatusConflict, map[string]string{"order_id": orderID, "status": "taken"})
		case resolveGone:
			writeJSON(w, http.StatusGone, map[string]string{"order_id": orderID, "status": "expired"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"order_id": orderID, "status": "unknown"})
		}
	})

	// push offers periodically, sometimes let a phantom driver win
	go func() {
		ticker := time.NewTicker(*pushInterval)
		defer ticker.Stop()
		for range ticker.C {
			if rand.Intn(PhantomTakeChance) == 0 {
				if rec := store.takeRandomUnresolved(); rec != nil {
					logger.WebSocket("phantom driver took order %s", rec.OrderID)
					room.pushOfferTaken(rec)
					continue
				}
			}
			rec := store.push(0.5 + rand.Float64()*7)
			logger.WebSocket("pushing offer %s (%.1f km)", rec.OrderID, rec.DistanceKm)
			room.pushOfferCreated(rec)
		}
	}()

	logger.Info("stub dispatch backend listening on :%d", *port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
