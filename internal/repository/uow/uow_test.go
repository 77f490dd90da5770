package uow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/uow"
)

var inventoryCols = []string{"id", "product_id", "warehouse_id", "quantity", "min_stock_level", "max_stock_level",
	"location_in_warehouse", "last_restock_date", "created_at", "updated_at"}

func newUnitOfWork(t *testing.T) (*uow.UnitOfWork, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return uow.New(db, time.Second, 5*time.Second, logger.NewLogger("error")), mock
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	u, mock := newUnitOfWork(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders SET status_id`).
		WithArgs(int64(6), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := u.Do(context.Background(), func(ctx context.Context, tx domain.TxStore) error {
		return tx.SetOrderStatus(ctx, 10, domain.StatusCancelled)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_RollsBackOnWorkflowError(t *testing.T) {
	u, mock := newUnitOfWork(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE OF i`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(inventoryCols).
			AddRow(int64(1), int64(1), int64(1), 10, 2, nil, "A1", nil, now, now))
	mock.ExpectRollback()

	stockErr := apperror.NewInsufficientStockError(1, 1, 10, 11)
	err := u.Do(context.Background(), func(ctx context.Context, tx domain.TxStore) error {
		locked, err := tx.LockInventory(ctx, []domain.InventoryKey{{ProductID: 1, WarehouseID: 1}})
		if err != nil {
			return err
		}
		inv := locked[domain.InventoryKey{ProductID: 1, WarehouseID: 1}]
		assert.Equal(t, 10, inv.Quantity)
		assert.Nil(t, inv.MaxStockLevel)
		return stockErr
	})

	assert.Same(t, stockErr, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_BeginFailureIsPersistenceError(t *testing.T) {
	u, mock := newUnitOfWork(t)
	mock.ExpectBegin().WillReturnError(errors.New("conexão perdida"))

	called := false
	err := u.Do(context.Background(), func(ctx context.Context, tx domain.TxStore) error {
		called = true
		return nil
	})

	assert.False(t, called)
	var internal *apperror.InternalError
	assert.ErrorAs(t, err, &internal)
}

func TestDo_CommitFailureIsPersistenceError(t *testing.T) {
	u, mock := newUnitOfWork(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := u.Do(context.Background(), func(ctx context.Context, tx domain.TxStore) error { return nil })

	status, category, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 500, status)
	assert.Equal(t, "INTERNAL_ERROR", category)
}

func TestDo_MissingInventoryRowOnRestockIsIntegrityError(t *testing.T) {
	u, mock := newUnitOfWork(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE inventory`).
		WithArgs(15, true, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := u.Do(context.Background(), func(ctx context.Context, tx domain.TxStore) error {
		return tx.SetInventoryQuantity(ctx, 3, 15, true)
	})

	_, category, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, "DATA_INTEGRITY", category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_WithMetricsCountsTransactionQueries(t *testing.T) {
	u, mock := newUnitOfWork(t)
	reader := sdkmetric.NewManualReader()
	metrics, err := database.NewQueryMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)
	u.WithMetrics(metrics)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders SET status_id`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, u.Do(context.Background(), func(ctx context.Context, tx domain.TxStore) error {
		return tx.SetOrderStatus(ctx, 10, domain.StatusPacked)
	}))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == "db.client.queries" {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), total)
}
