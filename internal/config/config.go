// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port            string        `env:"APP_PORT,default=3000" validate:"required,numeric"`
	DatabaseURL     string        `env:"DATABASE_URL" validate:"required"`
	CORSOrigin      string        `env:"CORS_ORIGIN,default=http://localhost:8080" validate:"required"`
	BcryptCost      int           `env:"BCRYPT_COST,default=12" validate:"min=4,max=31"`
	LogLevel        string        `env:"LOG_LEVEL,default=info" validate:"oneof=trace debug info warn error"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE,default=true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s" validate:"gt=0"`
	JWT             JWTConfig
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret       string `env:"JWT_SECRET" validate:"required"`
	ExpiresHours int    `env:"JWT_EXPIRES_HOURS,default=8" validate:"min=1,max=720"`
	Issuer       string `env:"JWT_ISSUER,default=activity_planner_app" validate:"required"`
}

// Expiry returns the token lifetime.
func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiresHours) * time.Hour
}

// Load reads .env files (if any) and the process environment into a Config
// and validates it.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CORSOrigins splits CORSOrigin on commas, dropping blanks and trailing slashes.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, p := range strings.Split(c.CORSOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
