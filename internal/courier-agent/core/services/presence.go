package services

import (
	"context"
	"fmt"
	"sync"

	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/mylogger"
)

// PresenceService owns the two presence inputs and fans the derived mode
// out to the location reporter and the offer coordinator. Driver-room
// membership follows availability: joined when available, left when not.
type PresenceService struct {
	reporter    *LocationReporter
	coordinator *OfferCoordinator
	log         mylogger.Logger
	driverID    string

	mu         sync.Mutex
	available  bool
	onDelivery bool
}

func NewPresenceService(reporter *LocationReporter, coordinator *OfferCoordinator, log mylogger.Logger, driverID string) *PresenceService {
	return &PresenceService{
		reporter:    reporter,
		coordinator: coordinator,
		log:         log,
		driverID:    driverID,
	}
}

func (p *PresenceService) SetPresence(ctx context.Context, available, onDelivery bool) error {
	p.mu.Lock()
	p.available = available
	p.onDelivery = onDelivery
	mode := model.DeriveMode(available, onDelivery)
	p.mu.Unlock()

	p.log.Action("presence").Info("presence changed",
		"available", available, "on_delivery", onDelivery, "mode", string(mode))
	p.reporter.SetMode(mode)

	if available {
		if err := p.coordinator.Subscribe(p.driverID); err != nil {
			return fmt.Errorf("joining driver room: %w", err)
		}
	} else {
		p.coordinator.Unsubscribe()
	}
	return nil
}

func (p *PresenceService) Mode() model.OperationalMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return model.DeriveMode(p.available, p.onDelivery)
}

func (p *PresenceService) RetryGps(ctx context.Context) error {
	p.reporter.RetryGps()
	return nil
}

func (p *PresenceService) GpsDisabled() bool {
	return p.reporter.GpsDisabled()
}

func (p *PresenceService) LastKnown() (model.PositionSample, string, bool) {
	return p.reporter.LastKnown()
}
