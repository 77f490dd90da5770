package customer

import (
	"context"
	"net/http"

	"gowms/internal/api/httpx"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, c domain.Customer) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type Handler struct {
	Service CustomerService
	Logger  logger.Logger
}

func NewHandler(svc CustomerService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListCustomersHandler godoc
// @Summary      Lista clientes
// @Tags         customers
// @Produce      json
// @Success      200  {array}  domain.Customer
// @Router       /customers [get]
func (h *Handler) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers(r.Context())
	httpx.Respond(w, r, h.Logger, customers, err, http.StatusOK)
}

// GetCustomerHandler godoc
// @Summary      Busca um cliente
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "ID do cliente"
// @Success      200  {object}  domain.Customer
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /customers/{id} [get]
func (h *Handler) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	c, err := h.Service.GetCustomer(r.Context(), id)
	httpx.Respond(w, r, h.Logger, c, err, http.StatusOK)
}

// CreateCustomerHandler godoc
// @Summary      Cria um cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        customer  body      domain.Customer  true  "Cliente"
// @Success      201       {object}  domain.Customer
// @Failure      400       {object}  domain.ErrorResponse
// @Failure      409       {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *Handler) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := httpx.DecodeJSON(r, &c); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}
	created, err := h.Service.CreateCustomer(r.Context(), c)
	httpx.Respond(w, r, h.Logger, created, err, http.StatusCreated)
}

// UpdateCustomerHandler godoc
// @Summary      Atualiza um cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id        path      int              true  "ID do cliente"
// @Param        customer  body      domain.Customer  true  "Cliente"
// @Success      200       {object}  domain.Customer
// @Failure      404       {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *Handler) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var c domain.Customer
	if err := httpx.DecodeJSON(r, &c); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	updated, err := h.Service.UpdateCustomer(r.Context(), id, c)
	httpx.Respond(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteCustomerHandler godoc
// @Summary      Remove um cliente
// @Tags         customers
// @Param        id   path  int  true  "ID do cliente"
// @Success      204
// @Failure      409  {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *Handler) DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusNoContent)
		return
	}
	err = h.Service.DeleteCustomer(r.Context(), id)
	httpx.Respond(w, r, h.Logger, nil, err, http.StatusNoContent)
}
