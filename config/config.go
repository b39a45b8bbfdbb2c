package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config struct to hold the configuration
type Config struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	StoreDir          string        `envconfig:"STORE_DIR" default:"./store"`
	SessionName       string        `envconfig:"SESSION_NAME" default:"default"`
	CommandTimeout    time.Duration `envconfig:"COMMAND_TIMEOUT" default:"30s"`
	InboundBuffer     int           `envconfig:"INBOUND_BUFFER" default:"64"`
	ReadyPollInterval time.Duration `envconfig:"READY_POLL_INTERVAL" default:"2s"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	BridgeURL         string        `envconfig:"BRIDGE_URL" default:"http://localhost:8080/api"`
}

// Load function to load the configuration from the environment variables
func Load() (Config, error) {
	err := godotenv.Load(".env")
	if err != nil {
		slog.Debug("No .env file found")
	}

	var c Config
	err = envconfig.Process("", &c)
	if err != nil {
		return Config{}, fmt.Errorf("unable to get envconfig: %w", err)
	}

	if c.CommandTimeout <= 0 {
		return Config{}, fmt.Errorf("COMMAND_TIMEOUT must be positive, got %s", c.CommandTimeout)
	}
	if c.InboundBuffer <= 0 {
		return Config{}, fmt.Errorf("INBOUND_BUFFER must be positive, got %d", c.InboundBuffer)
	}

	return c, nil
}
