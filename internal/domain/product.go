package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperror "gowms/internal/errors"
)

// Product representa o item principal do catálogo (a Entidade).
// O SKU é único e não pode ser alterado depois da criação.
type Product struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	SKU         string              `json:"sku"` // Stock Keeping Unit (código único de produto)
	Price       decimal.Decimal     `json:"price" swaggertype:"string" example:"19.90"`
	Weight      decimal.NullDecimal `json:"weight" swaggertype:"string" example:"1.25"`
	Dimensions  string              `json:"dimensions"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ProductSummary é a projeção do produto usada em joins (linhas de pedido, estoque).
type ProductSummary struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price" swaggertype:"string"`
}

// Validate aplica as regras de negócio do cadastro de produto.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidationError("O nome do produto não pode ser vazio.")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewValidationError("O SKU do produto é obrigatório.")
	}
	if !p.Price.IsPositive() {
		return apperror.NewValidationError("O preço do produto deve ser maior que zero.")
	}
	if p.Weight.Valid && p.Weight.Decimal.IsNegative() {
		return apperror.NewValidationError("O peso do produto não pode ser negativo.")
	}
	return nil
}

// ProductFilter define os parâmetros de busca da listagem de produtos.
type ProductFilter struct {
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
