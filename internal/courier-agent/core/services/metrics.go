package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PositionReportsTotal counts reporting cycles by outcome
	PositionReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_position_reports_total",
			Help: "Position reporting cycles by outcome",
		},
		[]string{"status"},
	)

	// HeartbeatsTotal counts idle-entry heartbeats
	HeartbeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_heartbeats_total",
			Help: "Heartbeats sent on idle entry",
		},
	)

	// GeocodeLookupsTotal counts reverse-geocode resolutions
	GeocodeLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_geocode_lookups_total",
			Help: "Reverse geocode lookups by result",
		},
		[]string{"result"},
	)

	// OfferEventsTotal counts inbound dispatch events
	OfferEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_offer_events_total",
			Help: "Inbound dispatch events by type",
		},
		[]string{"type"},
	)

	// OffersResolvedTotal counts how pending offers ended
	OffersResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_offers_resolved_total",
			Help: "Pending offers by terminal outcome",
		},
		[]string{"outcome"},
	)
)
