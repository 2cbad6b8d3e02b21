package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type offerRecord struct {
	OrderID        string
	DistanceKm     float64
	OfferedAt      time.Time
	TimeoutSeconds int
	resolved       bool
	takenBy        string
}

// dispatchStore is the in-memory offer book of the stub backend. First
// resolve of an order wins, everyone after gets a conflict.
type dispatchStore struct {
	mu     sync.Mutex
	offers map[string]*offerRecord // keyed by order id
}

func newDispatchStore() *dispatchStore {
	return &dispatchStore{offers: make(map[string]*offerRecord)}
}

func (s *dispatchStore) push(distanceKm float64) *offerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &offerRecord{
		OrderID:        uuid.NewString(),
		DistanceKm:     distanceKm,
		OfferedAt:      time.Now(),
		TimeoutSeconds: OfferTimeoutSeconds,
	}
	s.offers[rec.OrderID] = rec
	return rec
}

type resolveStatus int

const (
	resolveOK resolveStatus = iota
	resolveConflict
	resolveGone
	resolveUnknown
)

func (s *dispatchStore) resolve(orderID, driverID string, accepted bool) resolveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.offers[orderID]
	if !ok {
		return resolveUnknown
	}
	if rec.resolved {
		if rec.takenBy != "" && rec.takenBy != driverID {
			return resolveConflict
		}
		return resolveGone
	}
	if time.Since(rec.OfferedAt) > time.Duration(rec.TimeoutSeconds)*time.Second {
		rec.resolved = true
		return resolveGone
	}
	rec.resolved = true
	if accepted {
		rec.takenBy = driverID
	}
	return resolveOK
}

// takeRandomUnresolved marks one live offer as claimed by a phantom driver
// and returns it, or nil when nothing is pending.
func (s *dispatchStore) takeRandomUnresolved() *offerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.offers {
		if !rec.resolved && time.Since(rec.OfferedAt) < time.Duration(rec.TimeoutSeconds)*time.Second {
			rec.resolved = true
			rec.takenBy = "phantom-" + uuid.NewString()[:8]
			return rec
		}
	}
	return nil
}

func (s *dispatchStore) pending() []*offerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*offerRecord{}
	for _, rec := range s.offers {
		if !rec.resolved && time.Since(rec.OfferedAt) < time.Duration(rec.TimeoutSeconds)*time.Second {
			out = append(out, rec)
		}
	}
	return out
}
