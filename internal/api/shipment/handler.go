package shipment

import (
	"context"
	"net/http"

	"gowms/internal/api/httpx"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

type ShipmentService interface {
	CreateShipment(ctx context.Context, req domain.CreateShipmentRequest) (domain.Shipment, error)
	UpdateShipmentStatus(ctx context.Context, id int64, req domain.UpdateShipmentStatusRequest) (domain.Shipment, error)
	GetShipment(ctx context.Context, id int64) (domain.Shipment, error)
	ListShipments(ctx context.Context, filter domain.ShipmentFilter) ([]domain.Shipment, error)
}

type Handler struct {
	Service ShipmentService
	Logger  logger.Logger
}

func NewHandler(svc ShipmentService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateShipmentHandler godoc
// @Summary      Cria uma remessa e avança o pedido para Packed
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        shipment  body      domain.CreateShipmentRequest  true  "Remessa"
// @Success      201       {object}  domain.Shipment
// @Failure      404       {object}  domain.ErrorResponse
// @Failure      409       {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /shipments [post]
func (h *Handler) CreateShipmentHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateShipmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}
	created, err := h.Service.CreateShipment(r.Context(), req)
	httpx.Respond(w, r, h.Logger, created, err, http.StatusCreated)
}

// UpdateShipmentStatusHandler godoc
// @Summary      Atualiza o status da remessa e do pedido
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id      path      int                                 true  "ID da remessa"
// @Param        status  body      domain.UpdateShipmentStatusRequest  true  "Novo status"
// @Success      200     {object}  domain.Shipment
// @Failure      400     {object}  domain.ErrorResponse
// @Failure      404     {object}  domain.ErrorResponse
// @Failure      409     {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /shipments/{id}/status [put]
func (h *Handler) UpdateShipmentStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var req domain.UpdateShipmentStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	updated, err := h.Service.UpdateShipmentStatus(r.Context(), id, req)
	httpx.Respond(w, r, h.Logger, updated, err, http.StatusOK)
}

// GetShipmentHandler godoc
// @Summary      Busca uma remessa
// @Tags         shipments
// @Produce      json
// @Param        id   path      int  true  "ID da remessa"
// @Success      200  {object}  domain.Shipment
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /shipments/{id} [get]
func (h *Handler) GetShipmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	s, err := h.Service.GetShipment(r.Context(), id)
	httpx.Respond(w, r, h.Logger, s, err, http.StatusOK)
}

// ListShipmentsHandler godoc
// @Summary      Lista remessas
// @Tags         shipments
// @Produce      json
// @Param        order_id      query     int     false  "Filtra por pedido"
// @Param        warehouse_id  query     int     false  "Filtra por armazém"
// @Param        status        query     string  false  "PREPARING, IN_TRANSIT ou DELIVERED"
// @Param        start_date    query     string  false  "Data inicial (YYYY-MM-DD)"
// @Param        end_date      query     string  false  "Data final (YYYY-MM-DD)"
// @Success      200           {array}   domain.Shipment
// @Failure      400           {object}  domain.ErrorResponse
// @Router       /shipments [get]
func (h *Handler) ListShipmentsHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.ShipmentFilter{Status: domain.ShipmentStatus(r.URL.Query().Get("status"))}
	var err error
	if filter.OrderID, err = httpx.QueryInt64(r, "order_id"); err == nil {
		if filter.WarehouseID, err = httpx.QueryInt64(r, "warehouse_id"); err == nil {
			if filter.StartDate, err = httpx.QueryDate(r, "start_date"); err == nil {
				filter.EndDate, err = httpx.QueryDate(r, "end_date")
			}
		}
	}
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	shipments, err := h.Service.ListShipments(r.Context(), filter)
	httpx.Respond(w, r, h.Logger, shipments, err, http.StatusOK)
}
