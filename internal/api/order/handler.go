package order

import (
	"context"
	"fmt"
	"net/http"

	"gowms/internal/api/httpx"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

// OrderService é o contrato dos fluxos de pedido esperado pelo Handler.
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, id int64) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error)
	CancelOrder(ctx context.Context, id int64) error
	DeleteOrder(ctx context.Context, id int64) error
	OrderStatuses() []domain.OrderStatusInfo
	OrderStats(ctx context.Context) (domain.OrderStats, error)
}

type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateOrderHandler godoc
// @Summary      Cria um pedido com baixa de estoque
// @Description  Todas as linhas são validadas e baixadas de forma atômica. Qualquer falha desfaz o pedido inteiro.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      domain.CreateOrderRequest  true  "Pedido"
// @Success      201    {object}  domain.Order
// @Failure      400    {object}  domain.ErrorResponse
// @Failure      404    {object}  domain.ErrorResponse
// @Failure      422    {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *Handler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		h.Logger.Info("Pedido solicitado.", map[string]interface{}{
			"user_id": claims.UserID, "customer_id": req.CustomerID, "items": len(req.Items),
		})
	}

	created, err := h.Service.CreateOrder(r.Context(), req)
	httpx.Respond(w, r, h.Logger, created, err, http.StatusCreated)
}

// ListOrdersHandler godoc
// @Summary      Lista pedidos (mais recentes primeiro)
// @Tags         orders
// @Produce      json
// @Param        customer_id  query     int     false  "Filtra por cliente"
// @Param        status_id    query     int     false  "Filtra por status"
// @Param        start_date   query     string  false  "Data inicial (YYYY-MM-DD)"
// @Param        end_date     query     string  false  "Data final (YYYY-MM-DD)"
// @Success      200          {array}   domain.Order
// @Failure      400          {object}  domain.ErrorResponse
// @Router       /orders [get]
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	orders, err := h.Service.ListOrders(r.Context(), filter)
	httpx.Respond(w, r, h.Logger, orders, err, http.StatusOK)
}

func parseFilter(r *http.Request) (domain.OrderFilter, error) {
	var filter domain.OrderFilter
	var err error
	if filter.CustomerID, err = httpx.QueryInt64(r, "customer_id"); err != nil {
		return filter, err
	}
	status, err := httpx.QueryInt64(r, "status_id")
	if err != nil {
		return filter, err
	}
	if status != nil {
		s := domain.OrderStatus(*status)
		filter.StatusID = &s
	}
	if filter.StartDate, err = httpx.QueryDate(r, "start_date"); err != nil {
		return filter, err
	}
	filter.EndDate, err = httpx.QueryDate(r, "end_date")
	return filter, err
}

// GetOrderHandler godoc
// @Summary      Busca um pedido com linhas, cliente e status
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "ID do pedido"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /orders/{id} [get]
func (h *Handler) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	o, err := h.Service.GetOrder(r.Context(), id)
	httpx.Respond(w, r, h.Logger, o, err, http.StatusOK)
}

// UpdateOrderStatusHandler godoc
// @Summary      Sobrescreve o status do pedido
// @Description  Não devolve nem baixa estoque. Para cancelar com devolução use POST /orders/{id}/cancel.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path      int                              true  "ID do pedido"
// @Param        status  body      domain.UpdateOrderStatusRequest  true  "Novo status"
// @Success      200     {object}  domain.Order
// @Failure      404     {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [put]
func (h *Handler) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var req domain.UpdateOrderStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	o, err := h.Service.UpdateOrderStatus(r.Context(), id, req.StatusID)
	httpx.Respond(w, r, h.Logger, o, err, http.StatusOK)
}

// CancelOrderHandler godoc
// @Summary      Cancela o pedido e devolve o estoque
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "ID do pedido"
// @Success      200  {object}  domain.MessageResponse
// @Failure      404  {object}  domain.ErrorResponse
// @Failure      409  {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *Handler) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	if err := h.Service.CancelOrder(r.Context(), id); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	httpx.Respond(w, r, h.Logger, domain.MessageResponse{
		Message: fmt.Sprintf("Pedido %d cancelado e estoque devolvido.", id),
	}, nil, http.StatusOK)
}

// DeleteOrderHandler godoc
// @Summary      Exclui o pedido e devolve o estoque
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "ID do pedido"
// @Success      200  {object}  domain.MessageResponse
// @Failure      404  {object}  domain.ErrorResponse
// @Failure      409  {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *Handler) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	if err := h.Service.DeleteOrder(r.Context(), id); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	httpx.Respond(w, r, h.Logger, domain.MessageResponse{
		Message: fmt.Sprintf("Pedido %d excluído e estoque devolvido.", id),
	}, nil, http.StatusOK)
}

// OrderStatusesHandler godoc
// @Summary      Lista os status de pedido
// @Tags         orders
// @Produce      json
// @Success      200  {array}  domain.OrderStatusInfo
// @Router       /orders/statuses [get]
func (h *Handler) OrderStatusesHandler(w http.ResponseWriter, r *http.Request) {
	httpx.Respond(w, r, h.Logger, h.Service.OrderStatuses(), nil, http.StatusOK)
}

// OrderStatsHandler godoc
// @Summary      Estatísticas de pedidos
// @Tags         orders
// @Produce      json
// @Success      200  {object}  domain.OrderStats
// @Router       /orders/stats [get]
func (h *Handler) OrderStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.OrderStats(r.Context())
	httpx.Respond(w, r, h.Logger, stats, err, http.StatusOK)
}
