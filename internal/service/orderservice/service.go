package orderservice

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// Tentativas de gerar um número de pedido livre antes de desistir.
const maxOrderNumberAttempts = 5

// OrderRepository é o lado de leitura dos pedidos, fora de transação.
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Stats(ctx context.Context) (domain.OrderStats, error)
}

// EventPublisher recebe as notificações emitidas depois do commit.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Service orquestra os fluxos de pedido: criação com baixa de estoque,
// cancelamento e exclusão com devolução de estoque, e troca direta de status.
type Service struct {
	uow       domain.UnitOfWork
	repo      OrderRepository
	publisher EventPublisher
	logger    logger.Logger
	tracer    trace.Tracer

	now    func() time.Time
	suffix func() int
}

// NewService cria o serviço de pedidos.
func NewService(uow domain.UnitOfWork, repo OrderRepository, publisher EventPublisher, log logger.Logger) *Service {
	return &Service{
		uow:       uow,
		repo:      repo,
		publisher: publisher,
		logger:    log,
		tracer:    otel.Tracer("gowms/orderservice"),
		now:       time.Now,
		suffix:    func() int { return rand.IntN(1000) },
	}
}

// CreateOrder executa o fluxo de atendimento. Todas as linhas são validadas e
// baixadas dentro da mesma unidade de trabalho; qualquer falha desfaz tudo.
func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orderservice.CreateOrder",
		trace.WithAttributes(attribute.Int64("customer_id", req.CustomerID), attribute.Int("items", len(req.Items))))
	defer span.End()

	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	var created domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, tx domain.TxStore) error {
		if _, err := tx.FindCustomer(ctx, req.CustomerID); err != nil {
			return err
		}

		keys := make([]domain.InventoryKey, len(req.Items))
		for i, item := range req.Items {
			keys[i] = domain.InventoryKey{ProductID: item.ProductID, WarehouseID: item.WarehouseID}
		}
		stock, err := tx.LockInventory(ctx, keys)
		if err != nil {
			return err
		}

		lines := make([]domain.OrderLine, 0, len(req.Items))
		for _, item := range req.Items {
			product, err := tx.FindProduct(ctx, item.ProductID)
			if err != nil {
				return err
			}

			key := domain.InventoryKey{ProductID: item.ProductID, WarehouseID: item.WarehouseID}
			inv, ok := stock[key]
			if !ok {
				return apperror.NewInventoryNotFoundError(item.ProductID, item.WarehouseID)
			}
			if inv.Quantity < item.Quantity {
				return apperror.NewInsufficientStockError(item.ProductID, item.WarehouseID, inv.Quantity, item.Quantity)
			}

			// O mapa acompanha a quantidade para linhas repetidas do mesmo par.
			inv.Quantity -= item.Quantity
			stock[key] = inv
			if err := tx.SetInventoryQuantity(ctx, inv.ID, inv.Quantity, false); err != nil {
				return err
			}

			lines = append(lines, domain.OrderLine{
				ProductID:   item.ProductID,
				WarehouseID: item.WarehouseID,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
			})
		}

		number, err := s.nextOrderNumber(ctx, tx)
		if err != nil {
			return err
		}

		inserted, err := tx.InsertOrder(ctx, domain.Order{
			OrderNumber:     number,
			CustomerID:      req.CustomerID,
			ShippingAddress: req.ShippingAddress,
			StatusID:        domain.StatusReceived,
			TotalAmount:     domain.OrderTotal(lines),
			Notes:           req.Notes,
			Lines:           lines,
		})
		if err != nil {
			return err
		}

		created, err = tx.LoadOrder(ctx, inserted.ID)
		return err
	})
	if err != nil {
		s.fail(span, "Falha ao criar pedido.", err)
		return domain.Order{}, err
	}

	s.logger.Info("Pedido criado.", map[string]interface{}{
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"total_amount": created.TotalAmount.String(),
	})
	s.publish(ctx, domain.EventOrderCreated, created.ID, created.StatusID, created)
	return created, nil
}

// nextOrderNumber gera números até encontrar um livre.
func (s *Service) nextOrderNumber(ctx context.Context, tx domain.TxStore) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number := domain.NewOrderNumber(s.now(), s.suffix())
		exists, err := tx.OrderNumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", apperror.NewDuplicateError("order_number")
}

// CancelOrder devolve o estoque de todas as linhas e marca o pedido como cancelado.
func (s *Service) CancelOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "orderservice.CancelOrder", trace.WithAttributes(attribute.Int64("order_id", id)))
	defer span.End()

	err := s.uow.Do(ctx, func(ctx context.Context, tx domain.TxStore) error {
		order, err := s.restock(ctx, tx, id, "cancel")
		if err != nil {
			return err
		}
		return tx.SetOrderStatus(ctx, order.ID, domain.StatusCancelled)
	})
	if err != nil {
		s.fail(span, "Falha ao cancelar pedido.", err)
		return err
	}

	s.logger.Info("Pedido cancelado e estoque devolvido.", map[string]interface{}{"order_id": id})
	s.publish(ctx, domain.EventOrderCancelled, id, domain.StatusCancelled, nil)
	return nil
}

// DeleteOrder devolve o estoque e remove o pedido e suas linhas.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "orderservice.DeleteOrder", trace.WithAttributes(attribute.Int64("order_id", id)))
	defer span.End()

	var status domain.OrderStatus
	err := s.uow.Do(ctx, func(ctx context.Context, tx domain.TxStore) error {
		order, err := s.restock(ctx, tx, id, "delete")
		if err != nil {
			return err
		}
		status = order.StatusID
		return tx.DeleteOrder(ctx, order.ID)
	})
	if err != nil {
		s.fail(span, "Falha ao excluir pedido.", err)
		return err
	}

	s.logger.Info("Pedido excluído e estoque devolvido.", map[string]interface{}{"order_id": id})
	s.publish(ctx, domain.EventOrderDeleted, id, status, nil)
	return nil
}

// restock bloqueia o pedido, confere o status e soma as quantidades das linhas
// de volta ao estoque. Uma linha de estoque ausente é falha de integridade.
func (s *Service) restock(ctx context.Context, tx domain.TxStore, id int64, action string) (domain.Order, error) {
	order, err := tx.LockOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if order.StatusID.Locked() {
		return domain.Order{}, apperror.NewInvalidStateError(order.ID, order.StatusID.String(), action)
	}

	keys := make([]domain.InventoryKey, len(order.Lines))
	for i, line := range order.Lines {
		keys[i] = line.Key()
	}
	stock, err := tx.LockInventory(ctx, keys)
	if err != nil {
		return domain.Order{}, err
	}

	for _, line := range order.Lines {
		inv, ok := stock[line.Key()]
		if !ok {
			return domain.Order{}, apperror.NewIntegrityError(fmt.Sprintf(
				"Linha de estoque do produto %d no armazém %d não existe mais; o pedido %d não pode devolver estoque.",
				line.ProductID, line.WarehouseID, order.ID))
		}
		inv.Quantity += line.Quantity
		stock[line.Key()] = inv
		if err := tx.SetInventoryQuantity(ctx, inv.ID, inv.Quantity, false); err != nil {
			return domain.Order{}, err
		}
	}
	return order, nil
}

// UpdateOrderStatus sobrescreve o status sem tocar no estoque.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orderservice.UpdateOrderStatus",
		trace.WithAttributes(attribute.Int64("order_id", id), attribute.Int("status_id", int(status))))
	defer span.End()

	if !status.Valid() {
		return domain.Order{}, apperror.NewEntityNotFoundError("order_status", int64(status))
	}

	var updated domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, tx domain.TxStore) error {
		order, err := tx.LockOrder(ctx, id)
		if err != nil {
			return err
		}
		if !order.StatusID.CanOverwriteTo(status) {
			return apperror.NewInvalidStateError(order.ID, order.StatusID.String(), "update status")
		}
		if err := tx.SetOrderStatus(ctx, order.ID, status); err != nil {
			return err
		}
		updated, err = tx.LoadOrder(ctx, order.ID)
		return err
	})
	if err != nil {
		s.fail(span, "Falha ao atualizar status do pedido.", err)
		return domain.Order{}, err
	}

	s.publish(ctx, domain.EventOrderStatusChanged, id, status, nil)
	return updated, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperror.NewValidationError("end_date não pode ser anterior a start_date.")
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) OrderStatuses() []domain.OrderStatusInfo {
	return domain.OrderStatuses()
}

func (s *Service) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	return s.repo.Stats(ctx)
}

// fail registra o erro no span. Erros de cliente viram Warn, os demais Error.
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

// publish é best effort: o fluxo já foi confirmado.
func (s *Service) publish(ctx context.Context, typ domain.EventType, orderID int64, status domain.OrderStatus, payload interface{}) {
	event := domain.Event{
		Type:       typ,
		OrderID:    orderID,
		Status:     status,
		OccurredAt: s.now().UTC(),
		Payload:    payload,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Falha ao publicar evento de pedido.", map[string]interface{}{
			"event_type": string(typ), "order_id": orderID, "error": err.Error(),
		})
	}
}
