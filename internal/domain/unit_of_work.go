package domain

import "context"

// TxStore expõe as leituras e escritas disponíveis dentro de uma unidade de trabalho.
// Todas as operações enxergam (e bloqueiam) o mesmo snapshot transacional.
type TxStore interface {
	FindCustomer(ctx context.Context, id int64) (Customer, error)
	FindProduct(ctx context.Context, id int64) (Product, error)
	FindWarehouse(ctx context.Context, id int64) (Warehouse, error)

	// LockInventory bloqueia as linhas de estoque das chaves informadas, sempre
	// na ordem (product_id, warehouse_id). Chaves sem linha ficam fora do mapa.
	LockInventory(ctx context.Context, keys []InventoryKey) (map[InventoryKey]Inventory, error)
	LockInventoryByID(ctx context.Context, id int64) (Inventory, error)
	// SetInventoryQuantity grava a nova quantidade; restocked atualiza last_restock_date.
	SetInventoryQuantity(ctx context.Context, id int64, quantity int, restocked bool) error

	OrderNumberExists(ctx context.Context, number string) (bool, error)
	InsertOrder(ctx context.Context, order Order) (Order, error)
	// LockOrder bloqueia o pedido e devolve o cabeçalho com as linhas.
	LockOrder(ctx context.Context, id int64) (Order, error)
	SetOrderStatus(ctx context.Context, id int64, status OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error
	// LoadOrder devolve o pedido com cliente, status, produtos e armazéns.
	LoadOrder(ctx context.Context, id int64) (Order, error)

	InsertShipment(ctx context.Context, shipment Shipment) (Shipment, error)
	LockShipment(ctx context.Context, id int64) (Shipment, error)
	UpdateShipment(ctx context.Context, shipment Shipment) error
	LoadShipment(ctx context.Context, id int64) (Shipment, error)
}

// UnitOfWork executa fn de forma atômica: confirma quando fn retorna nil e
// desfaz tudo em qualquer erro.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
}
