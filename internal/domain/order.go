package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperror "gowms/internal/errors"
)

// OrderStatus é a enumeração fixa de estados do pedido (tabela order_status).
type OrderStatus int

const (
	StatusReceived         OrderStatus = 1
	StatusPaymentConfirmed OrderStatus = 2
	StatusPacked           OrderStatus = 3
	StatusShipped          OrderStatus = 4
	StatusDelivered        OrderStatus = 5
	StatusCancelled        OrderStatus = 6
)

var orderStatusNames = map[OrderStatus]string{
	StatusReceived:         "Received",
	StatusPaymentConfirmed: "Payment Confirmed",
	StatusPacked:           "Packed",
	StatusShipped:          "Shipped",
	StatusDelivered:        "Delivered",
	StatusCancelled:        "Cancelled",
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("OrderStatus(%d)", int(s))
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

// Locked indica que o pedido já saiu do armazém ou foi cancelado: não pode
// mais ser cancelado, excluído ou receber uma nova remessa.
func (s OrderStatus) Locked() bool {
	return s == StatusShipped || s == StatusDelivered || s == StatusCancelled
}

// CanOverwriteTo diz se a sobrescrita direta de status é permitida.
// Cancelled é terminal e Delivered só aceita ele mesmo.
func (s OrderStatus) CanOverwriteTo(next OrderStatus) bool {
	switch s {
	case StatusCancelled:
		return false
	case StatusDelivered:
		return next == StatusDelivered
	}
	return true
}

// OrderStatusInfo é uma linha da tabela order_status.
type OrderStatusInfo struct {
	ID          OrderStatus `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}

// OrderStatuses devolve a enumeração completa, na ordem do ciclo de vida.
func OrderStatuses() []OrderStatusInfo {
	return []OrderStatusInfo{
		{StatusReceived, StatusReceived.String(), "Pedido recebido"},
		{StatusPaymentConfirmed, StatusPaymentConfirmed.String(), "Pagamento confirmado"},
		{StatusPacked, StatusPacked.String(), "Pedido embalado"},
		{StatusShipped, StatusShipped.String(), "Pedido enviado"},
		{StatusDelivered, StatusDelivered.String(), "Pedido entregue"},
		{StatusCancelled, StatusCancelled.String(), "Pedido cancelado"},
	}
}

// Order é o agregado de pedido. TotalAmount é sempre a soma de
// quantity x unit_price das linhas no momento da criação.
type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      int64           `json:"customer_id"`
	OrderDate       time.Time       `json:"order_date"`
	ShippingAddress string          `json:"shipping_address"`
	StatusID        OrderStatus     `json:"status_id"`
	TotalAmount     decimal.Decimal `json:"total_amount" swaggertype:"string" example:"79.60"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Customer   *CustomerSummary `json:"customer,omitempty"`
	StatusName string           `json:"status_name,omitempty"`
	Lines      []OrderLine      `json:"items,omitempty"`
}

// OrderLine é uma linha do pedido (order_details). UnitPrice é o preço do
// produto no momento do pedido e não acompanha alterações posteriores.
type OrderLine struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	WarehouseID int64           `json:"warehouse_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"19.90"`

	Product   *ProductSummary   `json:"product,omitempty"`
	Warehouse *WarehouseSummary `json:"warehouse,omitempty"`
}

func (l OrderLine) Key() InventoryKey {
	return InventoryKey{ProductID: l.ProductID, WarehouseID: l.WarehouseID}
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderTotal soma quantity x unit_price de todas as linhas.
func OrderTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// NewOrderNumber gera o número do pedido: prefixo de tempo + sufixo aleatório.
func NewOrderNumber(now time.Time, suffix int) string {
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), suffix)
}

// --- Requisições ---

// OrderItemRequest é uma linha solicitada no pedido.
type OrderItemRequest struct {
	ProductID   int64 `json:"product_id" example:"1"`
	WarehouseID int64 `json:"warehouse_id" example:"1"`
	Quantity    int   `json:"quantity" example:"4"`
}

// CreateOrderRequest é o payload de criação de pedido.
type CreateOrderRequest struct {
	CustomerID      int64              `json:"customer_id" example:"1"`
	ShippingAddress string             `json:"shipping_address" example:"Rua das Flores, 100"`
	Notes           string             `json:"notes,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

// Validate rejeita formatos inválidos antes de qualquer acesso ao banco.
func (r CreateOrderRequest) Validate() error {
	if r.CustomerID <= 0 {
		return apperror.NewValidationError("customer_id é obrigatório.")
	}
	if strings.TrimSpace(r.ShippingAddress) == "" {
		return apperror.NewValidationError("O endereço de entrega é obrigatório.")
	}
	if len(r.Items) == 0 {
		return apperror.NewValidationError("O pedido deve conter ao menos um item.")
	}
	for i, item := range r.Items {
		if item.ProductID <= 0 || item.WarehouseID <= 0 {
			return apperror.NewValidationError(fmt.Sprintf("Item %d: product_id e warehouse_id são obrigatórios.", i+1))
		}
		if item.Quantity < 1 {
			return apperror.NewValidationError(fmt.Sprintf("Item %d: a quantidade deve ser no mínimo 1.", i+1))
		}
	}
	return nil
}

// UpdateOrderStatusRequest sobrescreve o status do pedido sem mexer no estoque.
type UpdateOrderStatusRequest struct {
	StatusID OrderStatus `json:"status_id" example:"2"`
}

// OrderFilter define os filtros da listagem de pedidos.
type OrderFilter struct {
	CustomerID *int64
	StatusID   *OrderStatus
	StartDate  *time.Time
	EndDate    *time.Time
}

// OrderStatusCount agrega pedidos por status.
type OrderStatusCount struct {
	StatusID OrderStatus     `json:"status_id"`
	Name     string          `json:"name"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"string"`
}

// OrderStats resume os pedidos. A receita não inclui pedidos cancelados.
type OrderStats struct {
	TotalOrders  int                `json:"total_orders"`
	TotalRevenue decimal.Decimal    `json:"total_revenue" swaggertype:"string"`
	ByStatus     []OrderStatusCount `json:"by_status"`
}

// NewOrderStats consolida as contagens por status.
func NewOrderStats(byStatus []OrderStatusCount) OrderStats {
	stats := OrderStats{TotalRevenue: decimal.Zero, ByStatus: byStatus}
	for _, c := range byStatus {
		stats.TotalOrders += c.Count
		if c.StatusID != StatusCancelled {
			stats.TotalRevenue = stats.TotalRevenue.Add(c.Amount)
		}
	}
	return stats
}
