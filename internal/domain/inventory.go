package domain

import (
	"time"

	apperror "gowms/internal/errors"
)

// StockStatus classifica uma linha de estoque em relação aos limites configurados.
type StockStatus string

const (
	StockLow    StockStatus = "Low"
	StockOver   StockStatus = "Over"
	StockNormal StockStatus = "Normal"
)

// ClassifyStock retorna Low quando quantity <= min, Over quando existe máximo e
// quantity >= max, e Normal nos demais casos.
func ClassifyStock(quantity, minLevel int, maxLevel *int) StockStatus {
	if quantity <= minLevel {
		return StockLow
	}
	if maxLevel != nil && quantity >= *maxLevel {
		return StockOver
	}
	return StockNormal
}

// InventoryKey identifica a linha de estoque de um produto em um armazém.
type InventoryKey struct {
	ProductID   int64
	WarehouseID int64
}

// Inventory é o estoque de um produto em um armazém. Existe no máximo uma
// linha por par (produto, armazém).
type Inventory struct {
	ID                  int64      `json:"id"`
	ProductID           int64      `json:"product_id"`
	WarehouseID         int64      `json:"warehouse_id"`
	Quantity            int        `json:"quantity"`
	MinStockLevel       int        `json:"min_stock_level"`
	MaxStockLevel       *int       `json:"max_stock_level"`
	LocationInWarehouse string     `json:"location_in_warehouse"`
	LastRestockDate     *time.Time `json:"last_restock_date"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Preenchidos apenas nas consultas com join.
	Product     *ProductSummary   `json:"product,omitempty"`
	Warehouse   *WarehouseSummary `json:"warehouse,omitempty"`
	StockStatus StockStatus       `json:"stock_status,omitempty"`
}

func (i Inventory) Key() InventoryKey {
	return InventoryKey{ProductID: i.ProductID, WarehouseID: i.WarehouseID}
}

// Classify preenche StockStatus a partir da quantidade atual.
func (i *Inventory) Classify() {
	i.StockStatus = ClassifyStock(i.Quantity, i.MinStockLevel, i.MaxStockLevel)
}

// Validate verifica os limites de quantidade da linha de estoque.
func (i Inventory) Validate() error {
	if i.ProductID <= 0 || i.WarehouseID <= 0 {
		return apperror.NewValidationError("product_id e warehouse_id são obrigatórios.")
	}
	if i.Quantity < 0 {
		return apperror.NewValidationError("A quantidade em estoque não pode ser negativa.")
	}
	if i.MinStockLevel < 0 {
		return apperror.NewValidationError("O estoque mínimo não pode ser negativo.")
	}
	if i.MaxStockLevel != nil && *i.MaxStockLevel <= i.MinStockLevel {
		return apperror.NewValidationError("O estoque máximo deve ser maior que o estoque mínimo.")
	}
	return nil
}

// InventoryFilter define os filtros da listagem de estoque.
type InventoryFilter struct {
	WarehouseID *int64
	ProductID   *int64
	LowStock    bool
}

// InventoryAdjustment é o payload do ajuste manual de estoque (positivo ou negativo).
type InventoryAdjustment struct {
	Delta  int    `json:"delta" example:"-3"`
	Reason string `json:"reason,omitempty"`
}
