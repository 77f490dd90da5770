package orderservice

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/events"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/memstore"
)

func newNumberFixture(t *testing.T) (*Service, *memstore.Store, domain.CreateOrderRequest) {
	t.Helper()
	store := memstore.New()
	c := store.AddCustomer(domain.Customer{Name: "Cliente"})
	p := store.AddProduct(domain.Product{Name: "Caneca", SKU: "CAN-001", Price: decimal.RequireFromString("10.00")})
	w := store.AddWarehouse(domain.Warehouse{Name: "CD", Location: "SP"})
	store.AddInventory(domain.Inventory{ProductID: p.ID, WarehouseID: w.ID, Quantity: 100})

	svc := NewService(store, nil, events.NopPublisher{}, logger.NewLogger("debug"))
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	req := domain.CreateOrderRequest{
		CustomerID:      c.ID,
		ShippingAddress: "Rua A, 1",
		Items:           []domain.OrderItemRequest{{ProductID: p.ID, WarehouseID: w.ID, Quantity: 1}},
	}
	return svc, store, req
}

func TestNextOrderNumber_RetriesOnCollision(t *testing.T) {
	svc, _, req := newNumberFixture(t)
	suffixes := []int{7, 7, 42}
	svc.suffix = func() int {
		n := suffixes[0]
		suffixes = suffixes[1:]
		return n
	}

	first, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "ORD-1700000000000-7", first.OrderNumber)
	assert.Equal(t, "ORD-1700000000000-42", second.OrderNumber)
}

func TestNextOrderNumber_GivesUpAfterMaxAttempts(t *testing.T) {
	svc, store, req := newNumberFixture(t)
	svc.suffix = func() int { return 1 }

	_, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), req)

	var dup *apperror.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "order_number", dup.Field)
	assert.Equal(t, 1, store.OrderCount())
}
