package uow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/customerrepo"
	"gowms/internal/repository/inventoryrepo"
	"gowms/internal/repository/orderrepo"
	"gowms/internal/repository/productrepo"
	"gowms/internal/repository/shipmentrepo"
	"gowms/internal/repository/warehouserepo"
)

// TxBeginner é satisfeito por *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// UnitOfWork implementa domain.UnitOfWork sobre uma transação READ COMMITTED.
// A proteção contra venda acima do estoque vem dos locks de linha (FOR UPDATE)
// tomados pelos repositórios dentro da transação.
type UnitOfWork struct {
	db        TxBeginner
	dbTimeout time.Duration
	txTimeout time.Duration
	logger    logger.Logger
	metrics   *database.QueryMetrics
}

func New(db TxBeginner, dbTimeout, txTimeout time.Duration, log logger.Logger) *UnitOfWork {
	return &UnitOfWork{db: db, dbTimeout: dbTimeout, txTimeout: txTimeout, logger: log}
}

// WithMetrics instrumenta os comandos SQL executados dentro das transações.
func (u *UnitOfWork) WithMetrics(m *database.QueryMetrics) *UnitOfWork {
	u.metrics = m
	return u
}

// Do abre a transação, executa fn e confirma. Qualquer erro (ou panic) de fn
// desfaz todas as escritas antes de ser devolvido.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx domain.TxStore) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, u.txTimeout)
	defer cancel()

	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		u.logger.Error("Falha ao iniciar transação.", err)
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, newTxStore(u.metrics.Wrap(tx), u.dbTimeout, u.logger)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			u.logger.Error("Falha ao desfazer transação.", rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		u.logger.Error("Falha ao confirmar transação.", err)
		return apperror.NewDBError("Falha ao confirmar transação", err)
	}
	return nil
}

// txStore compõe os repositórios ligados ao mesmo *sql.Tx.
type txStore struct {
	customers  *customerrepo.CustomerRepository
	products   *productrepo.ProductRepository
	warehouses *warehouserepo.WarehouseRepository
	inventory  *inventoryrepo.InventoryRepository
	orders     *orderrepo.OrderRepository
	shipments  *shipmentrepo.ShipmentRepository
}

func newTxStore(tx database.Querier, timeout time.Duration, log logger.Logger) *txStore {
	return &txStore{
		customers:  customerrepo.NewCustomerRepository(tx, timeout, log),
		products:   productrepo.NewProductRepository(tx, nil, timeout, 0, log),
		warehouses: warehouserepo.NewWarehouseRepository(tx, timeout, log),
		inventory:  inventoryrepo.NewInventoryRepository(tx, timeout, log),
		orders:     orderrepo.NewOrderRepository(tx, timeout, log),
		shipments:  shipmentrepo.NewShipmentRepository(tx, timeout, log),
	}
}

var _ domain.TxStore = (*txStore)(nil)

func (s *txStore) FindCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *txStore) FindProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *txStore) FindWarehouse(ctx context.Context, id int64) (domain.Warehouse, error) {
	return s.warehouses.GetWarehouseByID(ctx, id)
}

func (s *txStore) LockInventory(ctx context.Context, keys []domain.InventoryKey) (map[domain.InventoryKey]domain.Inventory, error) {
	return s.inventory.LockByKeys(ctx, keys)
}

func (s *txStore) LockInventoryByID(ctx context.Context, id int64) (domain.Inventory, error) {
	return s.inventory.LockByID(ctx, id)
}

func (s *txStore) SetInventoryQuantity(ctx context.Context, id int64, quantity int, restocked bool) error {
	if quantity < 0 {
		return apperror.NewIntegrityError(fmt.Sprintf("Quantidade negativa para a linha de estoque %d.", id))
	}
	return s.inventory.SetQuantity(ctx, id, quantity, restocked)
}

func (s *txStore) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	return s.orders.NumberExists(ctx, number)
}

func (s *txStore) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	return s.orders.Insert(ctx, order)
}

func (s *txStore) LockOrder(ctx context.Context, id int64) (domain.Order, error) {
	return s.orders.LockByID(ctx, id)
}

func (s *txStore) SetOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	return s.orders.SetStatus(ctx, id, status)
}

func (s *txStore) DeleteOrder(ctx context.Context, id int64) error {
	return s.orders.Delete(ctx, id)
}

func (s *txStore) LoadOrder(ctx context.Context, id int64) (domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *txStore) InsertShipment(ctx context.Context, shipment domain.Shipment) (domain.Shipment, error) {
	return s.shipments.Insert(ctx, shipment)
}

func (s *txStore) LockShipment(ctx context.Context, id int64) (domain.Shipment, error) {
	return s.shipments.LockByID(ctx, id)
}

func (s *txStore) UpdateShipment(ctx context.Context, shipment domain.Shipment) error {
	return s.shipments.Update(ctx, shipment)
}

func (s *txStore) LoadShipment(ctx context.Context, id int64) (domain.Shipment, error) {
	return s.shipments.GetByID(ctx, id)
}
