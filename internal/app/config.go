package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/tracegraph/internal/graphstore"
	"github.com/specialistvlad/tracegraph/internal/server"
	"github.com/specialistvlad/tracegraph/internal/telemetry"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	// CatalogPaths are HCL metatype catalog files or directories layered on
	// top of the built-in catalog.
	CatalogPaths []string
	Workers      int `validate:"gte=1"`

	Store     graphstore.Config
	Telemetry telemetry.Config
	Server    server.Config
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		LogFormat: "text",
		LogLevel:  "info",
		Workers:   4,
		Store:     graphstore.Config{Backend: "memory"},
		Telemetry: telemetry.Config{ServiceName: "tracegraph", TraceExporter: "none", MetricExporter: "none"},
		Server:    server.DefaultConfig(),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed '%s' check (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return nil, fmt.Errorf("configuration validation failed:\n- %s", strings.Join(msgs, "\n- "))
	}
	return &cfg, nil
}
