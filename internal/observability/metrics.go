// Package observability wires up trace and metric export for the server.
package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics registers a Prometheus-backed meter provider as the global one
// and returns the handler that answers scrapes. The returned shutdown
// function flushes and stops the provider; call it on process exit.
func InitMetrics() (http.Handler, func(context.Context) error, error) {
	reader, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus reader: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	return promhttp.Handler(), provider.Shutdown, nil
}
