package services

import (
	"context"
	"time"

	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/mylogger"
)

type Service struct {
	PresenceService  *PresenceService
	OfferCoordinator *OfferCoordinator
	LocationReporter *LocationReporter
	Geocoder         *CachedGeocoder
	AuthService      *AuthService
}

type Options struct {
	DriverID         string
	JwtSecret        string
	Intervals        model.ReportIntervals
	CountdownTick    time.Duration
	MinUsableSeconds int
}

func New(
	ctx context.Context,
	positions driven.IPositionProvider,
	geocoder driven.IGeocoder,
	backend driven.IDispatchBackend,
	events driven.IEventChannel,
	notifier driven.INotifier,
	log mylogger.Logger,
	opts Options,
) *Service {
	cached := NewCachedGeocoder(geocoder, log)
	reporter := NewLocationReporter(ctx, positions, cached, backend, notifier, log, opts.Intervals)
	coordinator := NewOfferCoordinator(ctx, backend, events, notifier, reporter, log, opts.CountdownTick, opts.MinUsableSeconds)
	presence := NewPresenceService(reporter, coordinator, log, opts.DriverID)

	return &Service{
		PresenceService:  presence,
		OfferCoordinator: coordinator,
		LocationReporter: reporter,
		Geocoder:         cached,
		AuthService:      NewAuthService(opts.JwtSecret),
	}
}
