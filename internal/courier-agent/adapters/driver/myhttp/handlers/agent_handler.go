package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"courier-agent/internal/courier-agent/core/domain/dto"
	"courier-agent/internal/courier-agent/core/myerrors"
	"courier-agent/internal/courier-agent/core/ports/driver"
	"courier-agent/internal/mylogger"
)

type cacheSizer interface {
	CacheSize() int
}

type AgentHandler struct {
	presence driver.IPresenceService
	offers   driver.IOfferService
	cache    cacheSizer
	feed     *FeedNotifier
	driverID string
	log      mylogger.Logger
}

func NewAgentHandler(presence driver.IPresenceService, offers driver.IOfferService, cache cacheSizer, feed *FeedNotifier, driverID string, log mylogger.Logger) *AgentHandler {
	return &AgentHandler{
		presence: presence,
		offers:   offers,
		cache:    cache,
		feed:     feed,
		driverID: driverID,
		log:      log,
	}
}

func (ah *AgentHandler) Status(w http.ResponseWriter, r *http.Request) {
	res := dto.StatusResponse{
		Driver_id:        ah.driverID,
		Mode:             string(ah.presence.Mode()),
		GpsDisabled:      ah.presence.GpsDisabled(),
		GeocodeCacheSize: ah.cache.CacheSize(),
	}
	if sample, place, ok := ah.presence.LastKnown(); ok {
		res.LastLatitude = sample.Latitude
		res.LastLongitude = sample.Longitude
		res.LastPlaceName = place
	}
	if snap, ok := ah.offers.Pending(); ok {
		res.PendingOffer = &dto.OfferSnapshot{
			Order_id:         snap.Order_id,
			DistanceKm:       snap.DistanceKm,
			RemainingSeconds: snap.RemainingSeconds,
			TotalSeconds:     snap.TotalSeconds,
		}
	}
	jsonResponse(w, http.StatusOK, res)
}

func (ah *AgentHandler) SetPresence(w http.ResponseWriter, r *http.Request) {
	req := dto.PresenceRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JsonError(w, http.StatusBadRequest, err)
		return
	}
	if err := ah.presence.SetPresence(r.Context(), req.Available, req.OnDelivery); err != nil {
		JsonError(w, http.StatusInternalServerError, err)
		return
	}
	jsonResponse(w, http.StatusAccepted, map[string]string{"mode": string(ah.presence.Mode())})
}

func (ah *AgentHandler) RetryGps(w http.ResponseWriter, r *http.Request) {
	if err := ah.presence.RetryGps(r.Context()); err != nil {
		JsonError(w, http.StatusInternalServerError, err)
		return
	}
	jsonResponse(w, http.StatusAccepted, nil)
}

func (ah *AgentHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	if err := ah.offers.Accept(r.Context()); err != nil {
		if errors.Is(err, myerrors.ErrNoPendingOffer) {
			JsonError(w, http.StatusConflict, err)
			return
		}
		JsonError(w, http.StatusInternalServerError, err)
		return
	}
	jsonResponse(w, http.StatusAccepted, nil)
}

func (ah *AgentHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	if err := ah.offers.Reject(r.Context()); err != nil {
		if errors.Is(err, myerrors.ErrNoPendingOffer) {
			JsonError(w, http.StatusConflict, err)
			return
		}
		JsonError(w, http.StatusInternalServerError, err)
		return
	}
	jsonResponse(w, http.StatusAccepted, nil)
}

func (ah *AgentHandler) Events(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"events": ah.feed.Drain(),
	})
}

func (ah *AgentHandler) Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
