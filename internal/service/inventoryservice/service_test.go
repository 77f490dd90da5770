package inventoryservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/memstore"
	"gowms/internal/service/inventoryservice"
)

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, inv domain.Inventory) (domain.Inventory, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, id int64) (domain.Inventory, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, filter domain.InventoryFilter) ([]domain.Inventory, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, inv domain.Inventory) (domain.Inventory, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockProductFinder struct {
	mock.Mock
}

func (m *MockProductFinder) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

type MockWarehouseFinder struct {
	mock.Mock
}

func (m *MockWarehouseFinder) GetWarehouseByID(ctx context.Context, id int64) (domain.Warehouse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

type mocks struct {
	repo       *MockInventoryRepository
	products   *MockProductFinder
	warehouses *MockWarehouseFinder
	store      *memstore.Store
}

func newService() (*inventoryservice.Service, mocks) {
	m := mocks{
		repo:       new(MockInventoryRepository),
		products:   new(MockProductFinder),
		warehouses: new(MockWarehouseFinder),
		store:      memstore.New(),
	}
	return inventoryservice.NewService(m.repo, m.products, m.warehouses, m.store, logger.NewLogger("debug")), m
}

func intPtr(v int) *int { return &v }

func TestCreateInventory_SetsRestockDateWhenStocked(t *testing.T) {
	svc, m := newService()
	m.products.On("FindByID", mock.Anything, int64(1)).Return(domain.Product{ID: 1}, nil)
	m.warehouses.On("GetWarehouseByID", mock.Anything, int64(2)).Return(domain.Warehouse{ID: 2}, nil)
	m.repo.On("Create", mock.Anything, mock.MatchedBy(func(inv domain.Inventory) bool {
		return inv.LastRestockDate != nil && inv.Quantity == 10
	})).Return(domain.Inventory{ID: 7, ProductID: 1, WarehouseID: 2, Quantity: 10, MinStockLevel: 2}, nil)

	created, err := svc.CreateInventory(context.Background(), domain.Inventory{ProductID: 1, WarehouseID: 2, Quantity: 10, MinStockLevel: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, domain.StockNormal, created.StockStatus)
	m.repo.AssertExpectations(t)
}

func TestCreateInventory_EmptyRowHasNoRestockDate(t *testing.T) {
	svc, m := newService()
	m.products.On("FindByID", mock.Anything, int64(1)).Return(domain.Product{ID: 1}, nil)
	m.warehouses.On("GetWarehouseByID", mock.Anything, int64(2)).Return(domain.Warehouse{ID: 2}, nil)
	m.repo.On("Create", mock.Anything, mock.MatchedBy(func(inv domain.Inventory) bool {
		return inv.LastRestockDate == nil
	})).Return(domain.Inventory{ID: 8, ProductID: 1, WarehouseID: 2}, nil)

	created, err := svc.CreateInventory(context.Background(), domain.Inventory{ProductID: 1, WarehouseID: 2})

	require.NoError(t, err)
	assert.Equal(t, domain.StockLow, created.StockStatus)
}

func TestCreateInventory_ValidationAndReferences(t *testing.T) {
	svc, m := newService()

	_, err := svc.CreateInventory(context.Background(), domain.Inventory{ProductID: 1, WarehouseID: 2, MinStockLevel: 5, MaxStockLevel: intPtr(5)})
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)

	m.products.On("FindByID", mock.Anything, int64(1)).Return(domain.Product{}, apperror.NewEntityNotFoundError("product", 1))
	_, err = svc.CreateInventory(context.Background(), domain.Inventory{ProductID: 1, WarehouseID: 2})
	var notFound *apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Entity)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInventory_DuplicatePair(t *testing.T) {
	svc, m := newService()
	m.products.On("FindByID", mock.Anything, int64(1)).Return(domain.Product{ID: 1}, nil)
	m.warehouses.On("GetWarehouseByID", mock.Anything, int64(2)).Return(domain.Warehouse{ID: 2}, nil)
	m.repo.On("Create", mock.Anything, mock.Anything).Return(domain.Inventory{}, apperror.NewDuplicateError("product_id,warehouse_id"))

	_, err := svc.CreateInventory(context.Background(), domain.Inventory{ProductID: 1, WarehouseID: 2, Quantity: 1})

	var dup *apperror.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "product_id,warehouse_id", dup.Field)
}

func TestUpdateInventory_RestockDateFollowsGrowth(t *testing.T) {
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := domain.Inventory{ID: 3, ProductID: 1, WarehouseID: 2, Quantity: 10, LastRestockDate: &last}

	t.Run("quantidade cresce", func(t *testing.T) {
		svc, m := newService()
		m.repo.On("GetByID", mock.Anything, int64(3)).Return(current, nil)
		m.repo.On("Update", mock.Anything, mock.MatchedBy(func(inv domain.Inventory) bool {
			return inv.LastRestockDate != nil && inv.LastRestockDate.After(last) && inv.ProductID == 1
		})).Return(domain.Inventory{ID: 3, Quantity: 15}, nil)

		_, err := svc.UpdateInventory(context.Background(), 3, domain.Inventory{Quantity: 15, ProductID: 99})
		require.NoError(t, err)
		m.repo.AssertExpectations(t)
	})

	t.Run("quantidade diminui", func(t *testing.T) {
		svc, m := newService()
		m.repo.On("GetByID", mock.Anything, int64(3)).Return(current, nil)
		m.repo.On("Update", mock.Anything, mock.MatchedBy(func(inv domain.Inventory) bool {
			return inv.LastRestockDate != nil && inv.LastRestockDate.Equal(last)
		})).Return(domain.Inventory{ID: 3, Quantity: 4}, nil)

		_, err := svc.UpdateInventory(context.Background(), 3, domain.Inventory{Quantity: 4})
		require.NoError(t, err)
		m.repo.AssertExpectations(t)
	})
}

func TestUpdateInventory_NegativeQuantityRejected(t *testing.T) {
	svc, m := newService()
	m.repo.On("GetByID", mock.Anything, int64(3)).Return(domain.Inventory{ID: 3, ProductID: 1, WarehouseID: 2}, nil)

	_, err := svc.UpdateInventory(context.Background(), 3, domain.Inventory{Quantity: -1})

	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdjustInventory(t *testing.T) {
	svc, m := newService()
	inv := m.store.AddInventory(domain.Inventory{ProductID: 1, WarehouseID: 2, Quantity: 5, MinStockLevel: 2})

	adjusted, err := svc.AdjustInventory(context.Background(), inv.ID, domain.InventoryAdjustment{Delta: 3, Reason: "recebimento"})
	require.NoError(t, err)
	assert.Equal(t, 8, adjusted.Quantity)
	assert.NotNil(t, adjusted.LastRestockDate)

	adjusted, err = svc.AdjustInventory(context.Background(), inv.ID, domain.InventoryAdjustment{Delta: -6})
	require.NoError(t, err)
	assert.Equal(t, 2, adjusted.Quantity)
	assert.Equal(t, domain.StockLow, adjusted.StockStatus)

	_, err = svc.AdjustInventory(context.Background(), inv.ID, domain.InventoryAdjustment{Delta: -3})
	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	stored, _ := m.store.Inventory(inv.ID)
	assert.Equal(t, 2, stored.Quantity)
}

func TestAdjustInventory_ZeroDeltaAndMissingRow(t *testing.T) {
	svc, _ := newService()

	_, err := svc.AdjustInventory(context.Background(), 1, domain.InventoryAdjustment{})
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = svc.AdjustInventory(context.Background(), 404, domain.InventoryAdjustment{Delta: 1})
	var notFound *apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "inventory", notFound.Entity)
}

func TestListAndDeleteInventory(t *testing.T) {
	svc, m := newService()
	wid := int64(2)
	filter := domain.InventoryFilter{WarehouseID: &wid, LowStock: true}
	m.repo.On("List", mock.Anything, filter).Return([]domain.Inventory{{ID: 1}}, nil)
	m.repo.On("Delete", mock.Anything, int64(1)).Return(nil)

	items, err := svc.ListInventory(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	require.NoError(t, svc.DeleteInventory(context.Background(), 1))
	m.repo.AssertExpectations(t)
}
