package product

import (
	"context"
	"net/http"
	"strings"

	"gowms/internal/api/httpx"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (domain.Product, error)
	GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateProductHandler godoc
// @Summary      Cria um produto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body      domain.Product  true  "Produto"
// @Success      201      {object}  domain.Product
// @Failure      400      {object}  domain.ErrorResponse
// @Failure      409      {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if claims, ok := middleware.GetUserClaimsFromContext(ctx); ok {
		h.Logger.Info("Tentativa de criação de produto por", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})
	}

	var p domain.Product
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	created, err := h.Service.CreateProduct(ctx, p)
	httpx.Respond(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetProductByIDHandler godoc
// @Summary      Busca um produto
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "ID do produto"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  domain.ErrorResponse
// @Router       /products/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	p, err := h.Service.GetProductByID(r.Context(), id)
	httpx.Respond(w, r, h.Logger, p, err, http.StatusOK)
}

// GetProductsHandler godoc
// @Summary      Lista produtos
// @Tags         products
// @Produce      json
// @Param        search     query     string  false  "Busca em nome, SKU e descrição"
// @Param        min_price  query     number  false  "Preço mínimo"
// @Param        max_price  query     number  false  "Preço máximo"
// @Success      200        {array}   domain.Product
// @Failure      400        {object}  domain.ErrorResponse
// @Router       /products [get]
func (h *Handler) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{Search: strings.TrimSpace(r.URL.Query().Get("search"))}

	var err error
	if filter.MinPrice, err = httpx.QueryDecimal(r, "min_price"); err == nil {
		filter.MaxPrice, err = httpx.QueryDecimal(r, "max_price")
	}
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	products, err := h.Service.GetProducts(r.Context(), filter)
	httpx.Respond(w, r, h.Logger, products, err, http.StatusOK)
}

// UpdateProductHandler godoc
// @Summary      Atualiza um produto (SKU imutável)
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      int             true  "ID do produto"
// @Param        product  body      domain.Product  true  "Produto"
// @Success      200      {object}  domain.Product
// @Failure      400      {object}  domain.ErrorResponse
// @Failure      404      {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var p domain.Product
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	updated, err := h.Service.UpdateProduct(r.Context(), id, p)
	httpx.Respond(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteProductHandler godoc
// @Summary      Remove um produto
// @Tags         products
// @Param        id   path  int  true  "ID do produto"
// @Success      204
// @Failure      404  {object}  domain.ErrorResponse
// @Failure      409  {object}  domain.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusNoContent)
		return
	}
	err = h.Service.DeleteProduct(r.Context(), id)
	httpx.Respond(w, r, h.Logger, nil, err, http.StatusNoContent)
}
