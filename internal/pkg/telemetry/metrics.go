package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "gowms"

// Metrics reúne o Meter da aplicação e o handler de /metrics (formato Prometheus).
type Metrics struct {
	Meter    metric.Meter
	Handler  http.Handler
	Shutdown func(context.Context) error
}

// SetupMetrics registra o MeterProvider global. As métricas são sempre expostas
// para scrape em Handler e, com Endpoint definido, também enviadas via OTLP/HTTP.
func SetupMetrics(ctx context.Context, opts Options) (*Metrics, error) {
	res, err := newResource(opts)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("falha ao criar exportador Prometheus: %w", err)
	}

	providerOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	}

	if opts.Endpoint != "" {
		exporterOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
		}
		otlpExporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("falha ao criar exportador OTLP de métricas: %w", err)
		}
		providerOpts = append(providerOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(otlpExporter)))
	}

	mp := sdkmetric.NewMeterProvider(providerOpts...)
	otel.SetMeterProvider(mp)

	return &Metrics{
		Meter:    mp.Meter(meterName),
		Handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Shutdown: mp.Shutdown,
	}, nil
}
