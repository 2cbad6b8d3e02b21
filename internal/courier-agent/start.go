package courieragent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"courier-agent/internal/config"
	"courier-agent/internal/courier-agent/adapters/driven/bm"
	"courier-agent/internal/courier-agent/adapters/driven/geo"
	"courier-agent/internal/courier-agent/adapters/driven/rest"
	"courier-agent/internal/courier-agent/adapters/driven/ws"
	"courier-agent/internal/courier-agent/adapters/driver/myhttp"
	"courier-agent/internal/courier-agent/adapters/driver/myhttp/handlers"
	"courier-agent/internal/courier-agent/core/domain/model"
	"courier-agent/internal/courier-agent/core/ports/driven"
	"courier-agent/internal/courier-agent/core/services"
	"courier-agent/internal/mylogger"
)

const shutdownWait = 10 * time.Second

func Run(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the marketplace token identifies the driver, config only confirms it
	auth := services.NewAuthService(cfg.Agent.JwtSecret)
	driverID, err := auth.ValidateDriverToken(cfg.Agent.Token)
	if err != nil {
		mylog.Action("token_rejected").Error("driver token validation failed", err)
		return fmt.Errorf("validate driver token: %w", err)
	}
	if cfg.Agent.DriverID != "" && cfg.Agent.DriverID != driverID {
		return fmt.Errorf("configured driver id %q does not match token subject %q", cfg.Agent.DriverID, driverID)
	}
	mylog = mylog.With("driver_id", driverID)

	positions := geo.NewPositionProvider(*cfg.Geo)
	geocoder := geo.NewGeocoder(*cfg.Geo)
	backend := rest.NewDispatchBackend(
		rest.NewHTTPClient(cfg.Backend.BaseURL, cfg.Agent.Token, cfg.Backend.Timeout),
		driverID,
		mylog,
	)

	var events driven.IEventChannel
	switch cfg.Agent.EventTransport {
	case "amqp":
		broker, err := bm.New(newCtx, *cfg.RabbitMq, mylog)
		if err != nil {
			mylog.Action("mb_connection_failed").Error("Failed to connect to RabbitMQ", err)
			return err
		}
		events = bm.NewEventChannel(broker, mylog)
	default:
		events = ws.NewEventChannel(cfg.WS.URL, cfg.Agent.Token, mylog)
	}
	defer events.Close()

	feed := handlers.NewFeedNotifier(mylog)

	service := services.New(newCtx, positions, geocoder, backend, events, feed, mylog, services.Options{
		DriverID: driverID,
		Intervals: model.ReportIntervals{
			Idle:     cfg.Agent.IdleInterval,
			Delivery: cfg.Agent.DeliveryInterval,
		},
		JwtSecret:        cfg.Agent.JwtSecret,
		CountdownTick:    cfg.Agent.CountdownTick,
		MinUsableSeconds: cfg.Agent.OfferMinUsableSeconds,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", cfg.API.Port),
		Handler: myhttp.Router(handlers.New(service, feed, driverID, mylog), cfg),
	}

	runErrCh := make(chan error, 1)
	go func() {
		mylog.Action("control_api_started").WithGroup("details").With("port", cfg.API.Port).Info("control API is running")
		runErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		service.LocationReporter.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			mylog.Action("graceful_shutdown_failed").Error("Failed to shut down control API gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
		mylog.Action("graceful_shutdown_completed").Info("control API shut down gracefully")
		return nil
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("agent_failed").Error("control API failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("control API exited normally")
		return nil
	}
}
