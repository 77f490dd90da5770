package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"gowms/internal/pkg/middleware"
)

func TestMetrics_RecordsRoutePatternAndStatus(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mw, err := middleware.Metrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/orders/{id}", okHandler)

	for _, path := range []string{"/orders/7", "/orders/8", "/nada"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[attribute.Distinct]int64{}
	var histogramSeen bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					counts[dp.Attributes.Equivalent()] = dp.Value
				}
			case metricdata.Histogram[float64]:
				histogramSeen = len(data.DataPoints) > 0
			}
		}
	}

	matched := attribute.NewSet(
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.route", "/orders/{id}"),
		attribute.String("http.status_code", "204"),
	)
	assert.Equal(t, int64(2), counts[matched.Equivalent()])

	notFound := attribute.NewSet(
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.route", "unmatched"),
		attribute.String("http.status_code", "404"),
	)
	assert.Equal(t, int64(1), counts[notFound.Equivalent()])
	assert.True(t, histogramSeen)
}
