package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ehr/fhirview/internal/platform/fhir"
)

type Config struct {
	Port         string   `mapstructure:"PORT" validate:"required,numeric"`
	Env          string   `mapstructure:"ENV" validate:"oneof=development production test"`
	LogLevel     string   `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	FHIRVersion  string   `mapstructure:"FHIR_VERSION" validate:"fhirversion"`
	MetadataFile string   `mapstructure:"METADATA_FILE"`
	BodyLimit    string   `mapstructure:"BODY_LIMIT" validate:"required"`
	BundleLimit  string   `mapstructure:"BUNDLE_LIMIT" validate:"required"`
	CORSOrigins  []string `mapstructure:"CORS_ORIGINS"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gte=0"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST" validate:"gte=0"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FHIR_VERSION", string(fhir.R4))
	v.SetDefault("METADATA_FILE", "")
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("BUNDLE_LIMIT", "10M")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("FHIR_VERSION")
	v.BindEnv("METADATA_FILE")
	v.BindEnv("BODY_LIMIT")
	v.BindEnv("BUNDLE_LIMIT")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	cfg.FHIRVersion = string(fhir.ParseVersion(cfg.FHIRVersion))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DefaultVersion is the FHIR version used when a request or command does not
// name one.
func (c *Config) DefaultVersion() fhir.Version {
	return fhir.Version(c.FHIRVersion)
}

// Validate checks the struct tags on Config.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("fhirversion", func(fl validator.FieldLevel) bool {
		return fhir.Version(fl.Field().String()).IsValid()
	}); err != nil {
		return fmt.Errorf("register fhirversion validation: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
