// Package memstore é uma unidade de trabalho em memória para testes de serviço.
// Transações são serializadas por um mutex e, em caso de erro, o estado volta
// ao snapshot tirado no início, com a mesma semântica tudo-ou-nada do Postgres.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
)

type state struct {
	customers  map[int64]domain.Customer
	products   map[int64]domain.Product
	warehouses map[int64]domain.Warehouse
	inventory  map[int64]domain.Inventory
	orders     map[int64]domain.Order
	shipments  map[int64]domain.Shipment
	nextID     int64
}

func (s *state) clone() *state {
	c := &state{
		customers:  make(map[int64]domain.Customer, len(s.customers)),
		products:   make(map[int64]domain.Product, len(s.products)),
		warehouses: make(map[int64]domain.Warehouse, len(s.warehouses)),
		inventory:  make(map[int64]domain.Inventory, len(s.inventory)),
		orders:     make(map[int64]domain.Order, len(s.orders)),
		shipments:  make(map[int64]domain.Shipment, len(s.shipments)),
		nextID:     s.nextID,
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.orders {
		v.Lines = append([]domain.OrderLine(nil), v.Lines...)
		c.orders[k] = v
	}
	for k, v := range s.shipments {
		c.shipments[k] = v
	}
	return c
}

// Store implementa domain.UnitOfWork e domain.TxStore em memória.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time

	// Fail, quando definido, é consultado antes de cada escrita; um erro
	// devolvido simula uma falha de persistência naquele ponto.
	Fail func(op string) error
}

func New() *Store {
	return &Store{
		st: &state{
			customers:  map[int64]domain.Customer{},
			products:   map[int64]domain.Product{},
			warehouses: map[int64]domain.Warehouse{},
			inventory:  map[int64]domain.Inventory{},
			orders:     map[int64]domain.Order{},
			shipments:  map[int64]domain.Shipment{},
		},
		now: time.Now,
	}
}

var (
	_ domain.UnitOfWork = (*Store)(nil)
	_ domain.TxStore    = (*tx)(nil)
)

// Do executa fn com acesso exclusivo ao estado e restaura o snapshot em caso de erro.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, store domain.TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return apperror.NewInternalError("Contexto encerrado antes da transação.", err)
	}

	snapshot := s.st.clone()
	if err := fn(ctx, &tx{s: s}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// --- Helpers de teste (fora de transação) ---

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

func (s *Store) AddCustomer(c domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.st.customers[c.ID] = c
	return c
}

func (s *Store) AddProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.st.products[p.ID] = p
	return p
}

// SetProductPrice altera o preço sem tocar em pedidos já gravados.
func (s *Store) SetProductPrice(id int64, p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.st.products[id]
	cur.Price = p.Price
	s.st.products[id] = cur
}

func (s *Store) AddWarehouse(w domain.Warehouse) domain.Warehouse {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = s.id()
	s.st.warehouses[w.ID] = w
	return w
}

func (s *Store) AddInventory(inv domain.Inventory) domain.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = s.id()
	s.st.inventory[inv.ID] = inv
	return inv
}

// RemoveInventory simula a remoção de uma linha de estoque por fora do fluxo.
func (s *Store) RemoveInventory(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.st.inventory, id)
}

// AddOrder grava um pedido já pronto, sem mexer no estoque.
func (s *Store) AddOrder(o domain.Order) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.id()
	for i := range o.Lines {
		o.Lines[i].ID = s.id()
		o.Lines[i].OrderID = o.ID
	}
	s.st.orders[o.ID] = o
	return o
}

func (s *Store) Inventory(id int64) (domain.Inventory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.st.inventory[id]
	return inv, ok
}

func (s *Store) Order(id int64) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.st.orders[id]
	return o, ok
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.orders)
}

func (s *Store) Shipments() []domain.Shipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Shipment, 0, len(s.st.shipments))
	for _, sh := range s.st.shipments {
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// tx é a visão transacional; o mutex já está com Do.
type tx struct {
	s *Store
}

func (t *tx) fail(op string) error {
	if t.s.Fail == nil {
		return nil
	}
	return t.s.Fail(op)
}

func (t *tx) FindCustomer(_ context.Context, id int64) (domain.Customer, error) {
	c, ok := t.s.st.customers[id]
	if !ok {
		return domain.Customer{}, apperror.NewEntityNotFoundError("customer", id)
	}
	return c, nil
}

func (t *tx) FindProduct(_ context.Context, id int64) (domain.Product, error) {
	p, ok := t.s.st.products[id]
	if !ok {
		return domain.Product{}, apperror.NewEntityNotFoundError("product", id)
	}
	return p, nil
}

func (t *tx) FindWarehouse(_ context.Context, id int64) (domain.Warehouse, error) {
	w, ok := t.s.st.warehouses[id]
	if !ok {
		return domain.Warehouse{}, apperror.NewEntityNotFoundError("warehouse", id)
	}
	return w, nil
}

func (t *tx) LockInventory(_ context.Context, keys []domain.InventoryKey) (map[domain.InventoryKey]domain.Inventory, error) {
	wanted := make(map[domain.InventoryKey]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	out := make(map[domain.InventoryKey]domain.Inventory, len(keys))
	for _, inv := range t.s.st.inventory {
		if wanted[inv.Key()] {
			out[inv.Key()] = inv
		}
	}
	return out, nil
}

func (t *tx) LockInventoryByID(_ context.Context, id int64) (domain.Inventory, error) {
	inv, ok := t.s.st.inventory[id]
	if !ok {
		return domain.Inventory{}, apperror.NewEntityNotFoundError("inventory", id)
	}
	return inv, nil
}

func (t *tx) SetInventoryQuantity(_ context.Context, id int64, quantity int, restocked bool) error {
	if err := t.fail("SetInventoryQuantity"); err != nil {
		return err
	}
	inv, ok := t.s.st.inventory[id]
	if !ok {
		return apperror.NewIntegrityError(fmt.Sprintf("Linha de estoque %d desapareceu durante a transação.", id))
	}
	if quantity < 0 {
		return apperror.NewIntegrityError(fmt.Sprintf("Quantidade negativa para a linha de estoque %d.", id))
	}
	inv.Quantity = quantity
	if restocked {
		now := t.s.now()
		inv.LastRestockDate = &now
	}
	t.s.st.inventory[id] = inv
	return nil
}

func (t *tx) OrderNumberExists(_ context.Context, number string) (bool, error) {
	for _, o := range t.s.st.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (t *tx) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := t.fail("InsertOrder"); err != nil {
		return domain.Order{}, err
	}
	if exists, _ := t.OrderNumberExists(ctx, order.OrderNumber); exists {
		return domain.Order{}, apperror.NewDuplicateError("order_number")
	}
	now := t.s.now()
	order.ID = t.s.id()
	order.OrderDate, order.CreatedAt, order.UpdatedAt = now, now, now
	lines := make([]domain.OrderLine, len(order.Lines))
	for i, l := range order.Lines {
		l.ID = t.s.id()
		l.OrderID = order.ID
		lines[i] = l
	}
	order.Lines = lines
	t.s.st.orders[order.ID] = order
	return order, nil
}

func (t *tx) LockOrder(_ context.Context, id int64) (domain.Order, error) {
	o, ok := t.s.st.orders[id]
	if !ok {
		return domain.Order{}, apperror.NewEntityNotFoundError("order", id)
	}
	o.Lines = append([]domain.OrderLine(nil), o.Lines...)
	return o, nil
}

func (t *tx) SetOrderStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	if err := t.fail("SetOrderStatus"); err != nil {
		return err
	}
	o, ok := t.s.st.orders[id]
	if !ok {
		return apperror.NewEntityNotFoundError("order", id)
	}
	o.StatusID = status
	o.UpdatedAt = t.s.now()
	t.s.st.orders[id] = o
	return nil
}

func (t *tx) DeleteOrder(_ context.Context, id int64) error {
	if err := t.fail("DeleteOrder"); err != nil {
		return err
	}
	if _, ok := t.s.st.orders[id]; !ok {
		return apperror.NewEntityNotFoundError("order", id)
	}
	delete(t.s.st.orders, id)
	for sid, sh := range t.s.st.shipments {
		if sh.OrderID == id {
			delete(t.s.st.shipments, sid)
		}
	}
	return nil
}

func (t *tx) LoadOrder(_ context.Context, id int64) (domain.Order, error) {
	o, ok := t.s.st.orders[id]
	if !ok {
		return domain.Order{}, apperror.NewEntityNotFoundError("order", id)
	}
	if c, ok := t.s.st.customers[o.CustomerID]; ok {
		o.Customer = &domain.CustomerSummary{ID: c.ID, Name: c.Name, Email: c.Email}
	}
	o.StatusName = o.StatusID.String()
	lines := make([]domain.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		if p, ok := t.s.st.products[l.ProductID]; ok {
			l.Product = &domain.ProductSummary{ID: p.ID, Name: p.Name, SKU: p.SKU, Price: p.Price}
		}
		if w, ok := t.s.st.warehouses[l.WarehouseID]; ok {
			l.Warehouse = &domain.WarehouseSummary{ID: w.ID, Name: w.Name, Location: w.Location}
		}
		lines[i] = l
	}
	o.Lines = lines
	return o, nil
}

func (t *tx) InsertShipment(_ context.Context, sh domain.Shipment) (domain.Shipment, error) {
	if err := t.fail("InsertShipment"); err != nil {
		return domain.Shipment{}, err
	}
	now := t.s.now()
	sh.ID = t.s.id()
	sh.ShipmentDate, sh.CreatedAt, sh.UpdatedAt = now, now, now
	t.s.st.shipments[sh.ID] = sh
	return sh, nil
}

func (t *tx) LockShipment(_ context.Context, id int64) (domain.Shipment, error) {
	sh, ok := t.s.st.shipments[id]
	if !ok {
		return domain.Shipment{}, apperror.NewEntityNotFoundError("shipment", id)
	}
	return sh, nil
}

func (t *tx) UpdateShipment(_ context.Context, sh domain.Shipment) error {
	if err := t.fail("UpdateShipment"); err != nil {
		return err
	}
	if _, ok := t.s.st.shipments[sh.ID]; !ok {
		return apperror.NewEntityNotFoundError("shipment", sh.ID)
	}
	sh.UpdatedAt = t.s.now()
	t.s.st.shipments[sh.ID] = sh
	return nil
}

func (t *tx) LoadShipment(_ context.Context, id int64) (domain.Shipment, error) {
	sh, ok := t.s.st.shipments[id]
	if !ok {
		return domain.Shipment{}, apperror.NewEntityNotFoundError("shipment", id)
	}
	if o, ok := t.s.st.orders[sh.OrderID]; ok {
		sh.OrderNumber = o.OrderNumber
		sh.OrderStatusID = o.StatusID
	}
	if w, ok := t.s.st.warehouses[sh.WarehouseID]; ok {
		sh.Warehouse = &domain.WarehouseSummary{ID: w.ID, Name: w.Name, Location: w.Location}
	}
	return sh, nil
}
