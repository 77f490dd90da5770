package domain

import (
	"time"

	apperror "gowms/internal/errors"
)

// ShipmentStatus é o estado de uma remessa.
type ShipmentStatus string

const (
	ShipmentPreparing ShipmentStatus = "PREPARING"
	ShipmentInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentDelivered ShipmentStatus = "DELIVERED"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentPreparing, ShipmentInTransit, ShipmentDelivered:
		return true
	}
	return false
}

// OrderStatus devolve o status que o pedido assume quando a remessa entra neste estado.
func (s ShipmentStatus) OrderStatus() OrderStatus {
	switch s {
	case ShipmentInTransit:
		return StatusShipped
	case ShipmentDelivered:
		return StatusDelivered
	default:
		return StatusPacked
	}
}

// Shipment é a remessa de um pedido a partir de um armazém.
type Shipment struct {
	ID             int64          `json:"id"`
	OrderID        int64          `json:"order_id"`
	WarehouseID    int64          `json:"warehouse_id"`
	ShipmentDate   time.Time      `json:"shipment_date"`
	TrackingNumber *string        `json:"tracking_number"`
	Carrier        *string        `json:"carrier"`
	Status         ShipmentStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Preenchidos nas consultas com join.
	OrderNumber   string            `json:"order_number,omitempty"`
	OrderStatusID OrderStatus       `json:"order_status_id,omitempty"`
	Warehouse     *WarehouseSummary `json:"warehouse,omitempty"`
}

// CreateShipmentRequest é o payload de criação de remessa.
type CreateShipmentRequest struct {
	OrderID        int64   `json:"order_id" example:"1"`
	WarehouseID    int64   `json:"warehouse_id" example:"1"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	Carrier        *string `json:"carrier,omitempty"`
}

func (r CreateShipmentRequest) Validate() error {
	if r.OrderID <= 0 || r.WarehouseID <= 0 {
		return apperror.NewValidationError("order_id e warehouse_id são obrigatórios.")
	}
	return nil
}

// UpdateShipmentStatusRequest altera o status da remessa; tracking_number e
// carrier só são sobrescritos quando enviados.
type UpdateShipmentStatusRequest struct {
	Status         ShipmentStatus `json:"status" example:"IN_TRANSIT"`
	TrackingNumber *string        `json:"tracking_number,omitempty"`
	Carrier        *string        `json:"carrier,omitempty"`
}

func (r UpdateShipmentStatusRequest) Validate() error {
	if !r.Status.Valid() {
		return apperror.NewValidationError("Status de remessa inválido. Use PREPARING, IN_TRANSIT ou DELIVERED.")
	}
	return nil
}

// ShipmentFilter define os filtros da listagem de remessas.
type ShipmentFilter struct {
	OrderID     *int64
	WarehouseID *int64
	Status      ShipmentStatus
	StartDate   *time.Time
	EndDate     *time.Time
}
