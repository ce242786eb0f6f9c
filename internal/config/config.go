// Package config defines the global configuration structure for the
// platform. Configuration is loaded once at process initialization (Lambda
// cold start or API boot) and is immutable thereafter, strictly separating
// code from configuration.
//
// Any missing required value or invalid format fails the process immediately
// on startup.
package config

import (
	"time"

	"rainbowfinder/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used throughout configuration to prevent accidental logging of sensitive
// values.
type SecretString = types.SecretString

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified. Sub-components receive only the
// config subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"rainbowfinder"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Server    ServerConfig
	Database  DatabaseConfig
	AWS       AWSConfig
	Weather   WeatherConfig
	Geocoder  GeocoderConfig
	Email     EmailConfig
	Predictor PredictorConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

// DatabaseConfig holds the database connection string.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"required"`
}

// AWSConfig holds AWS resource identifiers and regional configuration.
type AWSConfig struct {
	Region     string `envconfig:"AWS_REGION" default:"us-east-1"`
	AlertQueue string `envconfig:"SQS_ALERTS" validate:"required,url"`

	// LocalStack support (empty in prod).
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// WeatherConfig holds the forecast provider settings.
type WeatherConfig struct {
	BaseURL       string        `envconfig:"OPEN_METEO_BASE_URL" default:"https://api.open-meteo.com"`
	Timeout       time.Duration `envconfig:"WEATHER_TIMEOUT" default:"10s"`
	ForecastHours int           `envconfig:"WEATHER_FORECAST_HOURS" default:"24" validate:"min=1,max=384"`
}

// GeocoderConfig holds the geocoding provider settings.
type GeocoderConfig struct {
	BaseURL string        `envconfig:"NOMINATIM_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	Timeout time.Duration `envconfig:"GEOCODER_TIMEOUT" default:"10s"`
}

// EmailConfig holds outbound email settings.
type EmailConfig struct {
	Sender  string `envconfig:"EMAIL_SENDER" default:"alerts@rainbowfinder.app" validate:"email"`
	Enabled bool   `envconfig:"EMAIL_ENABLED" default:"true"`
}

// PredictorConfig holds tuning for the scheduled prediction cycle.
type PredictorConfig struct {
	SearchRadiusKM float64       `envconfig:"PREDICTOR_SEARCH_RADIUS_KM" default:"10" validate:"min=0"`
	CycleTimeout   time.Duration `envconfig:"PREDICTOR_CYCLE_TIMEOUT" default:"4m"`
	UserFanout     int           `envconfig:"PREDICTOR_USER_FANOUT" default:"8" validate:"min=1"`
}
