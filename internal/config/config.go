package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Backend  *Backendconfig
	RabbitMq *RabbitMqconfig
	WS       *WebSocketconfig
	Geo      *Geoconfig
	Agent    *Agentconfig
	API      *APIconfig
	Log      *Loggerconfig
}

type Backendconfig struct {
	BaseURL string
	Timeout time.Duration
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type WebSocketconfig struct {
	URL string
}

type Geoconfig struct {
	PositionURL     string
	PositionTimeout time.Duration
	GeocodeURL      string
	GeocodeTimeout  time.Duration
}

type Agentconfig struct {
	DriverID              string
	Token                 string
	JwtSecret             string
	EventTransport        string // "ws" or "amqp"
	IdleInterval          time.Duration
	DeliveryInterval      time.Duration
	CountdownTick         time.Duration
	OfferMinUsableSeconds int
}

type APIconfig struct {
	Port int
}

type Loggerconfig struct {
	Level string
}

func New() (*Config, error) {
	// .env is optional, real environment always wins
	_ = godotenv.Load()

	cnf := &Config{
		Backend: &Backendconfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:3000"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		WS: &WebSocketconfig{
			URL: getEnv("EVENTS_WS_URL", "ws://localhost:3000/ws/drivers"),
		},
		Geo: &Geoconfig{
			PositionURL:     getEnv("POSITION_URL", "http://localhost:8727/location"),
			PositionTimeout: getEnvDuration("POSITION_TIMEOUT", 5*time.Second),
			GeocodeURL:      getEnv("GEOCODE_URL", "https://nominatim.openstreetmap.org/reverse"),
			GeocodeTimeout:  getEnvDuration("GEOCODE_TIMEOUT", 5*time.Second),
		},
		Agent: &Agentconfig{
			DriverID:              getEnv("DRIVER_ID", ""),
			Token:                 getEnv("DRIVER_TOKEN", ""),
			JwtSecret:             getEnv("JWT_SECRET", "secret"),
			EventTransport:        getEnv("EVENT_TRANSPORT", "ws"),
			IdleInterval:          getEnvDuration("REPORT_IDLE_INTERVAL", 3*time.Minute),
			DeliveryInterval:      getEnvDuration("REPORT_DELIVERY_INTERVAL", 1*time.Minute),
			CountdownTick:         getEnvDuration("OFFER_COUNTDOWN_TICK", time.Second),
			OfferMinUsableSeconds: getEnvInt("OFFER_MIN_USABLE_SECONDS", 5),
		},
		API: &APIconfig{
			Port: getEnvInt("CONTROL_API_PORT", 4646),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}

func getEnv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func getEnvInt(key string, def int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return def
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		fmt.Printf("invalid %s, using default %v\n", key, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return def
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		fmt.Printf("invalid %s, using default %v\n", key, def)
		return def
	}
	return val
}
