package shipmentservice

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// ShipmentRepository é o lado de leitura das remessas.
type ShipmentRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Shipment, error)
	List(ctx context.Context, filter domain.ShipmentFilter) ([]domain.Shipment, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Service cria remessas e mantém o status do pedido alinhado ao da remessa.
type Service struct {
	uow       domain.UnitOfWork
	repo      ShipmentRepository
	publisher EventPublisher
	logger    logger.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewService(uow domain.UnitOfWork, repo ShipmentRepository, publisher EventPublisher, log logger.Logger) *Service {
	return &Service{
		uow:       uow,
		repo:      repo,
		publisher: publisher,
		logger:    log,
		tracer:    otel.Tracer("gowms/shipmentservice"),
		now:       time.Now,
	}
}

// CreateShipment registra a remessa como PREPARING e avança o pedido para Packed.
func (s *Service) CreateShipment(ctx context.Context, req domain.CreateShipmentRequest) (domain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "shipmentservice.CreateShipment",
		trace.WithAttributes(attribute.Int64("order_id", req.OrderID), attribute.Int64("warehouse_id", req.WarehouseID)))
	defer span.End()

	if err := req.Validate(); err != nil {
		return domain.Shipment{}, err
	}

	var created domain.Shipment
	err := s.uow.Do(ctx, func(ctx context.Context, tx domain.TxStore) error {
		order, err := tx.LockOrder(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if order.StatusID.Locked() {
			return apperror.NewInvalidStateError(order.ID, order.StatusID.String(), "ship")
		}
		if _, err := tx.FindWarehouse(ctx, req.WarehouseID); err != nil {
			return err
		}

		inserted, err := tx.InsertShipment(ctx, domain.Shipment{
			OrderID:        order.ID,
			WarehouseID:    req.WarehouseID,
			TrackingNumber: req.TrackingNumber,
			Carrier:        req.Carrier,
			Status:         domain.ShipmentPreparing,
		})
		if err != nil {
			return err
		}
		if err := tx.SetOrderStatus(ctx, order.ID, domain.ShipmentPreparing.OrderStatus()); err != nil {
			return err
		}

		created, err = tx.LoadShipment(ctx, inserted.ID)
		return err
	})
	if err != nil {
		s.fail(span, "Falha ao criar remessa.", err)
		return domain.Shipment{}, err
	}

	s.logger.Info("Remessa criada.", map[string]interface{}{"shipment_id": created.ID, "order_id": created.OrderID})
	s.publish(ctx, domain.EventShipmentCreated, created)
	return created, nil
}

// UpdateShipmentStatus move a remessa e o pedido juntos. tracking_number e
// carrier só mudam quando enviados.
func (s *Service) UpdateShipmentStatus(ctx context.Context, id int64, req domain.UpdateShipmentStatusRequest) (domain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "shipmentservice.UpdateShipmentStatus",
		trace.WithAttributes(attribute.Int64("shipment_id", id), attribute.String("status", string(req.Status))))
	defer span.End()

	if err := req.Validate(); err != nil {
		return domain.Shipment{}, err
	}

	var updated domain.Shipment
	err := s.uow.Do(ctx, func(ctx context.Context, tx domain.TxStore) error {
		shipment, err := tx.LockShipment(ctx, id)
		if err != nil {
			return err
		}
		order, err := tx.LockOrder(ctx, shipment.OrderID)
		if err != nil {
			return err
		}
		if order.StatusID == domain.StatusCancelled {
			return apperror.NewInvalidStateError(order.ID, order.StatusID.String(), "update shipment")
		}

		shipment.Status = req.Status
		if req.TrackingNumber != nil {
			shipment.TrackingNumber = req.TrackingNumber
		}
		if req.Carrier != nil {
			shipment.Carrier = req.Carrier
		}
		if err := tx.UpdateShipment(ctx, shipment); err != nil {
			return err
		}
		if err := tx.SetOrderStatus(ctx, order.ID, req.Status.OrderStatus()); err != nil {
			return err
		}

		updated, err = tx.LoadShipment(ctx, shipment.ID)
		return err
	})
	if err != nil {
		s.fail(span, "Falha ao atualizar remessa.", err)
		return domain.Shipment{}, err
	}

	s.publish(ctx, domain.EventShipmentStatusChanged, updated)
	return updated, nil
}

func (s *Service) GetShipment(ctx context.Context, id int64) (domain.Shipment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListShipments(ctx context.Context, filter domain.ShipmentFilter) ([]domain.Shipment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.NewValidationError("Status de remessa inválido.")
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperror.NewValidationError("end_date não pode ser anterior a start_date.")
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) fail(span trace.Span, msg string, err error) {
	span.RecordError(err)
	var appErr apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus() < 500 {
		s.logger.Warn(msg, map[string]interface{}{"category": appErr.Category(), "error": err.Error()})
		return
	}
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error(msg, err)
}

func (s *Service) publish(ctx context.Context, typ domain.EventType, shipment domain.Shipment) {
	event := domain.Event{
		Type:       typ,
		OrderID:    shipment.OrderID,
		ShipmentID: shipment.ID,
		Status:     shipment.Status.OrderStatus(),
		OccurredAt: s.now().UTC(),
		Payload:    shipment,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Falha ao publicar evento de remessa.", map[string]interface{}{
			"event_type": string(typ), "shipment_id": shipment.ID, "error": err.Error(),
		})
	}
}
