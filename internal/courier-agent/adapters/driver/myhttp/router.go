package myhttp

import (
	"net/http"

	"courier-agent/internal/config"
	"courier-agent/internal/courier-agent/adapters/driver/myhttp/handlers"
	"courier-agent/internal/courier-agent/adapters/driver/myhttp/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Router(handlers *handlers.Handlers, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	mdl := middleware.NewAuthMiddleware(cfg.Agent.JwtSecret)

	mux.HandleFunc("/health", handlers.AgentHandler.Health)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("GET /status", mdl.SessionHandler(func() http.HandlerFunc { return handlers.AgentHandler.Status }()))
	mux.Handle("POST /presence", mdl.SessionHandler(func() http.HandlerFunc { return handlers.AgentHandler.SetPresence }()))
	mux.Handle("POST /location/retry", mdl.SessionHandler(func() http.HandlerFunc { return handlers.AgentHandler.RetryGps }()))
	mux.Handle("POST /offers/accept", mdl.SessionHandler(func() http.HandlerFunc { return handlers.AgentHandler.AcceptOffer }()))
	mux.Handle("POST /offers/reject", mdl.SessionHandler(func() http.HandlerFunc { return handlers.AgentHandler.RejectOffer }()))
	mux.Handle("GET /events", mdl.SessionHandler(func() http.HandlerFunc { return handlers.AgentHandler.Events }()))

	return mux
}
