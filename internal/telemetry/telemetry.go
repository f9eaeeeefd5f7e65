// Package telemetry installs the global OpenTelemetry tracer and meter
// providers used by the converter, the editor and the HTTP server.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrUnknownExporter is returned for exporter names Init does not support.
var ErrUnknownExporter = errors.New("unknown exporter")

// Config selects exporters.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// TraceExporter is "stdout" or "none".
	TraceExporter string `validate:"omitempty,oneof=stdout none"`
	// MetricExporter is "prometheus", "stdout" or "none".
	MetricExporter string `validate:"omitempty,oneof=prometheus stdout none"`
	// Output receives stdout exporter output. Defaults to os.Stderr so
	// command output stays clean.
	Output io.Writer
}

// ShutdownFunc flushes and stops the providers Init installed.
type ShutdownFunc func(context.Context) error

// Init installs the configured providers globally. Empty exporter names
// mean "none", leaving the otel no-op providers in place.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	var shutdownFuncs []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	switch cfg.TraceExporter {
	case "", "none":
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(cfg.Output), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	default:
		return nil, fmt.Errorf("%w: trace exporter '%s'", ErrUnknownExporter, cfg.TraceExporter)
	}

	var reader metric.Reader
	switch cfg.MetricExporter {
	case "", "none":
	case "prometheus":
		// Registers with the default prometheus registry served by MetricsHandler.
		exporter, err := promexporter.New()
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		reader = exporter
	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.Output), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		reader = metric.NewPeriodicReader(exporter)
	default:
		_ = shutdown(ctx)
		return nil, fmt.Errorf("%w: metric exporter '%s'", ErrUnknownExporter, cfg.MetricExporter)
	}
	if reader != nil {
		mp := metric.NewMeterProvider(metric.WithResource(res), metric.WithReader(reader))
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	}

	return shutdown, nil
}

// MetricsHandler serves the default prometheus registry, which holds both
// the otel prometheus exporter and metrics registered through promauto.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
