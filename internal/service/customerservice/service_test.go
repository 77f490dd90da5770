package customerservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/service/customerservice"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (domain.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func strPtr(s string) *string { return &s }

func TestCreateCustomer_BlankEmailBecomesNull(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	svc := customerservice.NewService(mockRepo, logger.NewLogger("debug"))

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c domain.Customer) bool {
		return c.Email == nil && c.Name == "Maria"
	})).Return(domain.Customer{ID: 1, Name: "Maria"}, nil)

	created, err := svc.CreateCustomer(context.Background(), domain.Customer{Name: "Maria", Email: strPtr("  ")})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateCustomer_InvalidEmail(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	svc := customerservice.NewService(mockRepo, logger.NewLogger("debug"))

	_, err := svc.CreateCustomer(context.Background(), domain.Customer{Name: "Maria", Email: strPtr("maria@")})

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	svc := customerservice.NewService(mockRepo, logger.NewLogger("debug"))
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.Customer{}, apperror.NewDuplicateError("email"))

	_, err := svc.CreateCustomer(context.Background(), domain.Customer{Name: "Maria", Email: strPtr("maria@exemplo.com")})

	var dup *apperror.DuplicateError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestUpdateCustomer_UsesPathID(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	svc := customerservice.NewService(mockRepo, logger.NewLogger("debug"))
	expected := domain.Customer{ID: 4, Name: "João"}
	mockRepo.On("Update", mock.Anything, expected).Return(expected, nil)

	updated, err := svc.UpdateCustomer(context.Background(), 4, domain.Customer{ID: 1, Name: "João"})

	assert.NoError(t, err)
	assert.Equal(t, int64(4), updated.ID)
}

func TestDeleteCustomer_WithOrdersIsConflict(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	svc := customerservice.NewService(mockRepo, logger.NewLogger("debug"))
	mockRepo.On("Delete", mock.Anything, int64(2)).Return(apperror.NewConflictError("O cliente possui pedidos e não pode ser removido."))

	err := svc.DeleteCustomer(context.Background(), 2)

	assert.IsType(t, &apperror.ConflictError{}, err)
}
