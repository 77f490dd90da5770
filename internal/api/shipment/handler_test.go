package shipment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gowms/internal/api/shipment"
	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

type MockShipmentService struct {
	mock.Mock
}

func (m *MockShipmentService) CreateShipment(ctx context.Context, req domain.CreateShipmentRequest) (domain.Shipment, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Shipment), args.Error(1)
}

func (m *MockShipmentService) UpdateShipmentStatus(ctx context.Context, id int64, req domain.UpdateShipmentStatusRequest) (domain.Shipment, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(domain.Shipment), args.Error(1)
}

func (m *MockShipmentService) GetShipment(ctx context.Context, id int64) (domain.Shipment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Shipment), args.Error(1)
}

func (m *MockShipmentService) ListShipments(ctx context.Context, filter domain.ShipmentFilter) ([]domain.Shipment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Shipment), args.Error(1)
}

func newRouter(svc *MockShipmentService) http.Handler {
	h := shipment.NewHandler(svc, logger.NewLogger("error"))
	r := chi.NewRouter()
	r.Get("/shipments", h.ListShipmentsHandler)
	r.Post("/shipments", h.CreateShipmentHandler)
	r.Put("/shipments/{id}/status", h.UpdateShipmentStatusHandler)
	return r
}

func TestCreateShipmentHandler_LockedOrder(t *testing.T) {
	svc := new(MockShipmentService)
	svc.On("CreateShipment", mock.Anything, domain.CreateShipmentRequest{OrderID: 4, WarehouseID: 1}).
		Return(domain.Shipment{}, apperror.NewInvalidStateError(4, "Delivered", "ship")).Once()

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shipments", strings.NewReader(`{"order_id":4,"warehouse_id":1}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateShipmentStatusHandler(t *testing.T) {
	svc := new(MockShipmentService)
	svc.On("UpdateShipmentStatus", mock.Anything, int64(2), mock.MatchedBy(func(req domain.UpdateShipmentStatusRequest) bool {
		return req.Status == domain.ShipmentInTransit && req.TrackingNumber != nil && *req.TrackingNumber == "BR1" && req.Carrier == nil
	})).Return(domain.Shipment{ID: 2, Status: domain.ShipmentInTransit}, nil).Once()

	rec := httptest.NewRecorder()
	body := `{"status":"IN_TRANSIT","tracking_number":"BR1"}`
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/shipments/2/status", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestListShipmentsHandler(t *testing.T) {
	t.Run("Sucesso - filtros repassados", func(t *testing.T) {
		svc := new(MockShipmentService)
		svc.On("ListShipments", mock.Anything, mock.MatchedBy(func(f domain.ShipmentFilter) bool {
			return f.OrderID != nil && *f.OrderID == 8 && f.Status == domain.ShipmentDelivered && f.EndDate != nil
		})).Return([]domain.Shipment{}, nil).Once()

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shipments?order_id=8&status=DELIVERED&end_date=2024-12-31", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("Falha - data inválida", func(t *testing.T) {
		svc := new(MockShipmentService)
		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shipments?start_date=ontem", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ListShipments", mock.Anything, mock.Anything)
	})
}
