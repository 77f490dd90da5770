package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/pkg/telemetry"
)

func TestSetupMetrics_ServesPrometheusFormat(t *testing.T) {
	ctx := context.Background()
	m, err := telemetry.SetupMetrics(ctx, telemetry.Options{ServiceName: "gowms-test", Environment: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown(ctx) })

	hits, err := m.Meter.Int64Counter("gowms.test.hits")
	require.NoError(t, err)
	hits.Add(ctx, 3)

	rec := httptest.NewRecorder()
	m.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gowms_test_hits_total")
}
