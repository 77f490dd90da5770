package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"gowms/internal/pkg/database"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader, name string) map[attribute.Distinct]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[attribute.Distinct]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				out[dp.Attributes.Equivalent()] = dp.Value
			}
		}
	}
	return out
}

func TestQueryMetrics_CountsByOperationAndOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := database.NewQueryMetrics(provider.Meter("test"))
	require.NoError(t, err)
	q := metrics.Wrap(db)

	mock.ExpectExec("UPDATE inventory").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE inventory").WillReturnError(errors.New("conexão perdida"))
	mock.ExpectQuery("(?i)select id from orders").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	ctx := context.Background()
	_, err = q.ExecContext(ctx, "UPDATE inventory SET quantity = $1", 3)
	require.NoError(t, err)
	_, err = q.ExecContext(ctx, "UPDATE inventory SET quantity = $1", 3)
	require.Error(t, err)
	var id int64
	require.NoError(t, q.QueryRowContext(ctx, "  select id FROM orders").Scan(&id))
	require.NoError(t, mock.ExpectationsWereMet())

	sums := collectSums(t, reader, "db.client.queries")
	key := func(op, outcome string) attribute.Distinct {
		set := attribute.NewSet(attribute.String("db.operation", op), attribute.String("outcome", outcome))
		return set.Equivalent()
	}
	assert.Equal(t, int64(1), sums[key("UPDATE", "ok")])
	assert.Equal(t, int64(1), sums[key("UPDATE", "error")])
	assert.Equal(t, int64(1), sums[key("SELECT", "ok")])
}

func TestQueryMetrics_NilWrapIsPassThrough(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var metrics *database.QueryMetrics
	assert.Same(t, db, metrics.Wrap(db))
}
