package domain

import "time"

// EventType nomeia as notificações publicadas depois do commit de um fluxo.
type EventType string

const (
	EventOrderCreated          EventType = "order.created"
	EventOrderCancelled        EventType = "order.cancelled"
	EventOrderDeleted          EventType = "order.deleted"
	EventOrderStatusChanged    EventType = "order.status_changed"
	EventShipmentCreated       EventType = "shipment.created"
	EventShipmentStatusChanged EventType = "shipment.status_changed"
)

// Event é a mensagem publicada no tópico de pedidos. A chave da mensagem é o OrderID.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	OrderID    int64       `json:"order_id"`
	ShipmentID int64       `json:"shipment_id,omitempty"`
	Status     OrderStatus `json:"status_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload,omitempty"`
}
