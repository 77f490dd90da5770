package shipmentrepo_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/shipmentrepo"
)

var shipmentCols = []string{"id", "order_id", "warehouse_id", "shipment_date", "tracking_number", "carrier",
	"status", "created_at", "updated_at"}

func newRepo(t *testing.T) (*shipmentrepo.ShipmentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return shipmentrepo.NewShipmentRepository(db, time.Second, logger.NewLogger("error")), mock
}

func strPtr(s string) *string { return &s }

func TestInsert_NullableColumns(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	carrier := strPtr("Correios")

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shipments AS sh (order_id, warehouse_id, tracking_number, carrier, status)`)).
		WithArgs(int64(4), int64(1), nil, carrier, domain.ShipmentPreparing).
		WillReturnRows(sqlmock.NewRows(shipmentCols).
			AddRow(int64(30), int64(4), int64(1), now, nil, "Correios", "PREPARING", now, now))

	created, err := repo.Insert(context.Background(), domain.Shipment{
		OrderID: 4, WarehouseID: 1, Carrier: carrier, Status: domain.ShipmentPreparing,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(30), created.ID)
	assert.Nil(t, created.TrackingNumber)
	require.NotNil(t, created.Carrier)
	assert.Equal(t, "Correios", *created.Carrier)
	assert.Equal(t, domain.ShipmentPreparing, created.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_TranslatesConstraintErrors(t *testing.T) {
	t.Run("pedido ou armazém inexistente", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`INSERT INTO shipments`).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "fk_shipments_warehouse"})

		_, err := repo.Insert(context.Background(), domain.Shipment{OrderID: 4, WarehouseID: 99, Status: domain.ShipmentPreparing})

		assert.IsType(t, &apperror.NotFoundError{}, err)
	})

	t.Run("rastreio repetido", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`INSERT INTO shipments`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_shipments_tracking_number"})

		_, err := repo.Insert(context.Background(), domain.Shipment{OrderID: 4, WarehouseID: 1, TrackingNumber: strPtr("BR1"), Status: domain.ShipmentPreparing})

		var dup *apperror.DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "uq_shipments_tracking_number", dup.Field)
	})
}

func TestLockByID(t *testing.T) {
	t.Run("bloqueia a linha", func(t *testing.T) {
		repo, mock := newRepo(t)
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(`FROM shipments sh WHERE sh.id = $1 FOR UPDATE`)).
			WithArgs(int64(30)).
			WillReturnRows(sqlmock.NewRows(shipmentCols).
				AddRow(int64(30), int64(4), int64(1), now, "BR1", nil, "IN_TRANSIT", now, now))

		s, err := repo.LockByID(context.Background(), 30)

		require.NoError(t, err)
		assert.Equal(t, domain.ShipmentInTransit, s.Status)
		require.NotNil(t, s.TrackingNumber)
		assert.Equal(t, "BR1", *s.TrackingNumber)
		assert.Nil(t, s.Carrier)
	})

	t.Run("remessa inexistente", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(31)).WillReturnRows(sqlmock.NewRows(shipmentCols))

		_, err := repo.LockByID(context.Background(), 31)

		var notFound *apperror.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "shipment", notFound.Entity)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("grava status e rastreio", func(t *testing.T) {
		repo, mock := newRepo(t)
		tracking := strPtr("BR2")
		mock.ExpectExec(`UPDATE shipments SET status = \$1, tracking_number = \$2, carrier = \$3`).
			WithArgs(domain.ShipmentDelivered, tracking, nil, int64(30)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), domain.Shipment{ID: 30, Status: domain.ShipmentDelivered, TrackingNumber: tracking})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remessa inexistente", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(`UPDATE shipments`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), domain.Shipment{ID: 30, Status: domain.ShipmentDelivered})
		assert.IsType(t, &apperror.NotFoundError{}, err)
	})
}

func TestList_StatusFilterAndOrdering(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	warehouseID := int64(1)

	mock.ExpectQuery(regexp.QuoteMeta(`AND sh.warehouse_id = $1 AND sh.status = $2 ORDER BY sh.shipment_date DESC, sh.id DESC`)).
		WithArgs(warehouseID, domain.ShipmentInTransit).
		WillReturnRows(sqlmock.NewRows(append(shipmentCols, "order_number", "status_id", "name", "location")).
			AddRow(int64(30), int64(4), int64(1), now, "BR1", "Correios", "IN_TRANSIT", now, now, "ORD-1", int64(4), "CD", "SP"))

	list, err := repo.List(context.Background(), domain.ShipmentFilter{WarehouseID: &warehouseID, Status: domain.ShipmentInTransit})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ORD-1", list[0].OrderNumber)
	assert.Equal(t, domain.StatusShipped, list[0].OrderStatusID)
	require.NotNil(t, list[0].Warehouse)
	assert.Equal(t, "CD", list[0].Warehouse.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
