package handlers

import (
	"courier-agent/internal/courier-agent/core/services"
	"courier-agent/internal/mylogger"
)

type Handlers struct {
	AgentHandler *AgentHandler
}

func New(service *services.Service, feed *FeedNotifier, driverID string, log mylogger.Logger) *Handlers {
	return &Handlers{
		AgentHandler: NewAgentHandler(service.PresenceService, service.OfferCoordinator, service.Geocoder, feed, driverID, log),
	}
}
