package inventory

import (
	"context"
	"net/http"

	"gowms/internal/api/httpx"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

type InventoryService interface {
	CreateInventory(ctx context.Context, inv domain.Inventory) (domain.Inventory, error)
	GetInventory(ctx context.Context, id int64) (domain.Inventory, error)
	ListInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.Inventory, error)
	UpdateInventory(ctx context.Context, id int64, inv domain.Inventory) (domain.Inventory, error)
	AdjustInventory(ctx context.Context, id int64, adj domain.InventoryAdjustment) (domain.Inventory, error)
	DeleteInventory(ctx context.Context, id int64) error
}

// Handler expõe as linhas de estoque por produto e armazém.
type Handler struct {
	Service InventoryService
	Logger  logger.Logger
}

func NewHandler(svc InventoryService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListInventoryHandler godoc
// @Summary      Lista o estoque
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query     int   false  "Filtra por armazém"
// @Param        product_id    query     int   false  "Filtra por produto"
// @Param        low_stock     query     bool  false  "Apenas quantity <= min_stock_level"
// @Success      200           {array}   domain.Inventory
// @Failure      400           {object}  domain.ErrorResponse
// @Router       /inventory [get]
func (h *Handler) ListInventoryHandler(w http.ResponseWriter, r *http.Request) {
	var (
		filter domain.InventoryFilter
		err    error
	)
	if filter.WarehouseID, err = httpx.QueryInt64(r, "warehouse_id"); err == nil {
		if filter.ProductID, err = httpx.QueryInt64(r, "product_id"); err == nil {
			filter.LowStock, err = httpx.QueryBool(r, "low_stock")
		}
	}
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	items, err := h.Service.ListInventory(r.Context(), filter)
	httpx.Respond(w, r, h.Logger, items, err, http.StatusOK)
}

// GetInventoryHandler godoc
// @Summary      Busca uma linha de estoque
// @Tags         inventory
// @Produce      json
// @Param        id   path      int  true  "ID da linha de estoque"
// @Success      200  {object}  domain.Inventory
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /inventory/{id} [get]
func (h *Handler) GetInventoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	inv, err := h.Service.GetInventory(r.Context(), id)
	httpx.Respond(w, r, h.Logger, inv, err, http.StatusOK)
}

// CreateInventoryHandler godoc
// @Summary      Cria uma linha de estoque
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        inventory  body      domain.Inventory  true  "Linha de estoque"
// @Success      201        {object}  domain.Inventory
// @Failure      400        {object}  domain.ErrorResponse
// @Failure      404        {object}  domain.ErrorResponse
// @Failure      409        {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /inventory [post]
func (h *Handler) CreateInventoryHandler(w http.ResponseWriter, r *http.Request) {
	var inv domain.Inventory
	if err := httpx.DecodeJSON(r, &inv); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}
	created, err := h.Service.CreateInventory(r.Context(), inv)
	httpx.Respond(w, r, h.Logger, created, err, http.StatusCreated)
}

// UpdateInventoryHandler godoc
// @Summary      Atualiza quantidade, limites e localização
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id         path      int               true  "ID da linha de estoque"
// @Param        inventory  body      domain.Inventory  true  "Linha de estoque"
// @Success      200        {object}  domain.Inventory
// @Failure      400        {object}  domain.ErrorResponse
// @Failure      404        {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id} [put]
func (h *Handler) UpdateInventoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var inv domain.Inventory
	if err := httpx.DecodeJSON(r, &inv); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	updated, err := h.Service.UpdateInventory(r.Context(), id, inv)
	httpx.Respond(w, r, h.Logger, updated, err, http.StatusOK)
}

// AdjustInventoryHandler godoc
// @Summary      Ajusta a quantidade por delta
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id          path      int                         true  "ID da linha de estoque"
// @Param        adjustment  body      domain.InventoryAdjustment  true  "Ajuste"
// @Success      200         {object}  domain.Inventory
// @Failure      422         {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id}/adjust [post]
func (h *Handler) AdjustInventoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var adj domain.InventoryAdjustment
	if err := httpx.DecodeJSON(r, &adj); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	inv, err := h.Service.AdjustInventory(r.Context(), id, adj)
	httpx.Respond(w, r, h.Logger, inv, err, http.StatusOK)
}

// DeleteInventoryHandler godoc
// @Summary      Remove uma linha de estoque
// @Tags         inventory
// @Param        id   path  int  true  "ID da linha de estoque"
// @Success      204
// @Failure      404  {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/{id} [delete]
func (h *Handler) DeleteInventoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusNoContent)
		return
	}
	err = h.Service.DeleteInventory(r.Context(), id)
	httpx.Respond(w, r, h.Logger, nil, err, http.StatusNoContent)
}
