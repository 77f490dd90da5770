package warehouseservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/service/warehouseservice"
)

// MockWarehouseRepository é uma implementação mock da interface WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	args := m.Called(ctx, warehouse)
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) GetWarehouseByID(ctx context.Context, id int64) (domain.Warehouse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) GetAllWarehouses(ctx context.Context, filter domain.WarehouseFilter) ([]domain.Warehouse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) UpdateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	args := m.Called(ctx, warehouse)
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) DeleteWarehouse(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWarehouseRepository) InventorySummary(ctx context.Context, id int64) (domain.InventorySummary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.InventorySummary), args.Error(1)
}

func (m *MockWarehouseRepository) Stats(ctx context.Context) ([]domain.WarehouseStats, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.WarehouseStats), args.Error(1)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("debug")
}

// --- Testes para CreateWarehouse ---

func TestCreateWarehouse_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	newWarehouse := domain.Warehouse{Name: "Warehouse Alpha", Location: "Campinas"}
	expected := newWarehouse
	expected.ID = 1

	mockRepo.On("CreateWarehouse", mock.Anything, newWarehouse).Return(expected, nil)

	created, err := svc.CreateWarehouse(context.Background(), newWarehouse)

	assert.NoError(t, err)
	assert.Equal(t, expected, created)
	mockRepo.AssertExpectations(t)
}

func TestCreateWarehouse_ValidationError(t *testing.T) {
	tests := []struct {
		name      string
		warehouse domain.Warehouse
	}{
		{"nome vazio", domain.Warehouse{Location: "Campinas"}},
		{"nome curto", domain.Warehouse{Name: "AB", Location: "Campinas"}},
		{"sem localização", domain.Warehouse{Name: "Warehouse Alpha"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockWarehouseRepository)
			svc := warehouseservice.NewService(mockRepo, newTestLogger())

			_, err := svc.CreateWarehouse(context.Background(), tt.warehouse)

			assert.Error(t, err)
			assert.IsType(t, &apperror.ValidationError{}, err)
			mockRepo.AssertNotCalled(t, "CreateWarehouse", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateWarehouse_RepoError(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())
	w := domain.Warehouse{Name: "Warehouse Alpha", Location: "Campinas"}
	repoErr := apperror.NewDBError("Falha ao criar armazém", errors.New("connection refused"))

	mockRepo.On("CreateWarehouse", mock.Anything, w).Return(domain.Warehouse{}, repoErr)

	_, err := svc.CreateWarehouse(context.Background(), w)

	assert.ErrorIs(t, err, repoErr)
}

// --- Testes para UpdateWarehouse / DeleteWarehouse ---

func TestUpdateWarehouse_SetsIDFromPath(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())
	input := domain.Warehouse{ID: 99, Name: "Warehouse Beta", Location: "Recife"}
	expected := domain.Warehouse{ID: 5, Name: "Warehouse Beta", Location: "Recife"}

	mockRepo.On("UpdateWarehouse", mock.Anything, expected).Return(expected, nil)

	updated, err := svc.UpdateWarehouse(context.Background(), 5, input)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), updated.ID)
	mockRepo.AssertExpectations(t)
}

func TestUpdateWarehouse_NotFound(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())
	w := domain.Warehouse{ID: 5, Name: "Warehouse Beta", Location: "Recife"}

	mockRepo.On("UpdateWarehouse", mock.Anything, w).Return(domain.Warehouse{}, apperror.NewEntityNotFoundError("warehouse", 5))

	_, err := svc.UpdateWarehouse(context.Background(), 5, w)

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestDeleteWarehouse_ReferencedIsConflict(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	mockRepo.On("DeleteWarehouse", mock.Anything, int64(3)).Return(apperror.NewConflictError("O armazém 3 é referenciado por pedidos ou remessas."))

	err := svc.DeleteWarehouse(context.Background(), 3)

	assert.IsType(t, &apperror.ConflictError{}, err)
}

// --- Resumos ---

func TestInventorySummary_RequiresExistingWarehouse(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())

	mockRepo.On("GetWarehouseByID", mock.Anything, int64(9)).Return(domain.Warehouse{}, apperror.NewEntityNotFoundError("warehouse", 9))

	_, err := svc.InventorySummary(context.Background(), 9)

	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "InventorySummary", mock.Anything, mock.Anything)
}

func TestInventorySummary_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())
	expected := domain.InventorySummary{WarehouseID: 2, TotalItems: 3, TotalQuantity: 40, LowStockItems: 1}

	mockRepo.On("GetWarehouseByID", mock.Anything, int64(2)).Return(domain.Warehouse{ID: 2}, nil)
	mockRepo.On("InventorySummary", mock.Anything, int64(2)).Return(expected, nil)

	summary, err := svc.InventorySummary(context.Background(), 2)

	assert.NoError(t, err)
	assert.Equal(t, expected, summary)
}

func TestStats(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := warehouseservice.NewService(mockRepo, newTestLogger())
	expected := []domain.WarehouseStats{{Warehouse: domain.WarehouseSummary{ID: 1, Name: "Alpha"}}}

	mockRepo.On("Stats", mock.Anything).Return(expected, nil)

	stats, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, stats)
}
