package domain

import (
	"strings"
	"time"

	apperror "gowms/internal/errors"
)

// Warehouse representa um armazém físico no sistema.
type Warehouse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contact_person"`
	ContactEmail  string    `json:"contact_email"`
	ContactPhone  string    `json:"contact_phone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WarehouseSummary é a projeção do armazém usada em joins.
type WarehouseSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Validate verifica nome e localização do armazém.
func (w Warehouse) Validate() error {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return apperror.NewValidationError("O nome do armazém não pode ser vazio.")
	}
	if len(name) < 3 || len(name) > 100 {
		return apperror.NewValidationError("O nome do armazém deve ter entre 3 e 100 caracteres.")
	}
	if strings.TrimSpace(w.Location) == "" {
		return apperror.NewValidationError("A localização do armazém é obrigatória.")
	}
	return nil
}

// WarehouseFilter filtra a listagem por texto livre (nome, localização, endereço).
type WarehouseFilter struct {
	Search string
}

// InventorySummary agrega as linhas de estoque de um armazém.
type InventorySummary struct {
	WarehouseID    int64 `json:"warehouse_id"`
	TotalItems     int   `json:"total_items"`
	TotalQuantity  int   `json:"total_quantity"`
	LowStockItems  int   `json:"low_stock_items"`
	OverStockItems int   `json:"over_stock_items"`
}

// WarehouseStats é o resumo de estoque por armazém usado no painel.
type WarehouseStats struct {
	Warehouse WarehouseSummary `json:"warehouse"`
	InventorySummary
}
