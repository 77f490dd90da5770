package warehouse

import (
	"context"
	"net/http"
	"strings"

	"gowms/internal/api/httpx"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

// WarehouseService define o contrato que o Handler espera do Serviço de Armazéns.
type WarehouseService interface {
	CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error)
	GetWarehouseByID(ctx context.Context, id int64) (domain.Warehouse, error)
	GetAllWarehouses(ctx context.Context, filter domain.WarehouseFilter) ([]domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id int64, w domain.Warehouse) (domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int64) error
	InventorySummary(ctx context.Context, id int64) (domain.InventorySummary, error)
	Stats(ctx context.Context) ([]domain.WarehouseStats, error)
}

type Handler struct {
	Service WarehouseService
	Logger  logger.Logger
}

func NewHandler(svc WarehouseService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateWarehouseHandler godoc
// @Summary      Cria um armazém
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        warehouse  body      domain.Warehouse  true  "Armazém"
// @Success      201        {object}  domain.Warehouse
// @Failure      400        {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses [post]
func (h *Handler) CreateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	var wh domain.Warehouse
	if err := httpx.DecodeJSON(r, &wh); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}
	created, err := h.Service.CreateWarehouse(r.Context(), wh)
	httpx.Respond(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetWarehouseHandler godoc
// @Summary      Busca um armazém
// @Tags         warehouses
// @Produce      json
// @Param        id   path      int  true  "ID do armazém"
// @Success      200  {object}  domain.Warehouse
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /warehouses/{id} [get]
func (h *Handler) GetWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	wh, err := h.Service.GetWarehouseByID(r.Context(), id)
	httpx.Respond(w, r, h.Logger, wh, err, http.StatusOK)
}

// ListWarehousesHandler godoc
// @Summary      Lista armazéns
// @Tags         warehouses
// @Produce      json
// @Param        search  query  string  false  "Busca em nome, localização e endereço"
// @Success      200     {array}  domain.Warehouse
// @Router       /warehouses [get]
func (h *Handler) ListWarehousesHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.WarehouseFilter{Search: strings.TrimSpace(r.URL.Query().Get("search"))}
	list, err := h.Service.GetAllWarehouses(r.Context(), filter)
	httpx.Respond(w, r, h.Logger, list, err, http.StatusOK)
}

// UpdateWarehouseHandler godoc
// @Summary      Atualiza um armazém
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id         path      int               true  "ID do armazém"
// @Param        warehouse  body      domain.Warehouse  true  "Armazém"
// @Success      200        {object}  domain.Warehouse
// @Failure      404        {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [put]
func (h *Handler) UpdateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var wh domain.Warehouse
	if err := httpx.DecodeJSON(r, &wh); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	updated, err := h.Service.UpdateWarehouse(r.Context(), id, wh)
	httpx.Respond(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteWarehouseHandler godoc
// @Summary      Remove um armazém
// @Tags         warehouses
// @Param        id   path  int  true  "ID do armazém"
// @Success      204
// @Failure      409  {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [delete]
func (h *Handler) DeleteWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusNoContent)
		return
	}
	err = h.Service.DeleteWarehouse(r.Context(), id)
	httpx.Respond(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// InventorySummaryHandler godoc
// @Summary      Resumo de estoque de um armazém
// @Tags         warehouses
// @Produce      json
// @Param        id   path      int  true  "ID do armazém"
// @Success      200  {object}  domain.InventorySummary
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /warehouses/{id}/inventory-summary [get]
func (h *Handler) InventorySummaryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	summary, err := h.Service.InventorySummary(r.Context(), id)
	httpx.Respond(w, r, h.Logger, summary, err, http.StatusOK)
}

// StatsHandler godoc
// @Summary      Estatísticas de estoque de todos os armazéns
// @Tags         warehouses
// @Produce      json
// @Success      200  {array}  domain.WarehouseStats
// @Router       /warehouses/stats [get]
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	httpx.Respond(w, r, h.Logger, stats, err, http.StatusOK)
}
