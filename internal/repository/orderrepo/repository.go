package orderrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

const orderColumns = `o.id, o.order_number, o.customer_id, o.order_date, o.shipping_address, o.status_id,
        o.total_amount, o.notes, o.created_at, o.updated_at`

const detailSelect = `
        SELECT ` + orderColumns + `, c.name, c.email, s.name
        FROM orders o
        JOIN customers c ON c.id = o.customer_id
        JOIN order_status s ON s.id = o.status_id`

// OrderRepository acessa orders e order_details. Insert, LockByID, SetStatus e
// Delete rodam dentro da unidade de trabalho; List e Stats usam o pool.
type OrderRepository struct {
	DB        database.Querier
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewOrderRepository(db database.Querier, dbTimeout time.Duration, logger logger.Logger) *OrderRepository {
	return &OrderRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.OrderDate, &o.ShippingAddress, &o.StatusID,
		&o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanOrderDetail(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var email sql.NullString
	c := &domain.CustomerSummary{}
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.OrderDate, &o.ShippingAddress, &o.StatusID,
		&o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt, &c.Name, &email, &o.StatusName)
	if err != nil {
		return o, err
	}
	c.ID = o.CustomerID
	if email.Valid {
		c.Email = &email.String
	}
	o.Customer = c
	return o, nil
}

// NumberExists verifica colisão do número gerado antes do INSERT.
func (r *OrderRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, apperror.NewDBError("Falha ao verificar número do pedido", err)
	}
	return exists, nil
}

// Insert grava o cabeçalho e as linhas do pedido e devolve ambos com IDs.
func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	header := `
        INSERT INTO orders AS o (order_number, customer_id, shipping_address, status_id, total_amount, notes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + orderColumns

	created, err := scanOrder(r.DB.QueryRowContext(ctxTimeout, header,
		order.OrderNumber, order.CustomerID, order.ShippingAddress, order.StatusID, order.TotalAmount, order.Notes,
	))
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return domain.Order{}, apperror.NewDuplicateError(database.FieldForConstraint(constraint))
		}
		if _, ok := database.ForeignKeyViolation(err); ok {
			return domain.Order{}, apperror.NewEntityNotFoundError("customer", order.CustomerID)
		}
		r.logger.Error("Falha ao inserir pedido.", err)
		return domain.Order{}, apperror.NewDBError("Falha ao inserir pedido", err)
	}

	lineSQL := `
        INSERT INTO order_details (order_id, product_id, warehouse_id, quantity, unit_price)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	created.Lines = make([]domain.OrderLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		line.OrderID = created.ID
		if err := r.DB.QueryRowContext(ctxTimeout, lineSQL,
			line.OrderID, line.ProductID, line.WarehouseID, line.Quantity, line.UnitPrice,
		).Scan(&line.ID); err != nil {
			if _, ok := database.ForeignKeyViolation(err); ok {
				return domain.Order{}, apperror.NewInventoryNotFoundError(line.ProductID, line.WarehouseID)
			}
			r.logger.Error("Falha ao inserir linha do pedido.", err)
			return domain.Order{}, apperror.NewDBError("Falha ao inserir linha do pedido", err)
		}
		created.Lines = append(created.Lines, line)
	}
	return created, nil
}

// LockByID bloqueia o pedido (FOR UPDATE) e carrega as linhas.
func (r *OrderRepository) LockByID(ctx context.Context, id int64) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(ctxTimeout, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, apperror.NewEntityNotFoundError("order", id)
	}
	if err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao bloquear pedido", err)
	}

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT id, order_id, product_id, warehouse_id, quantity, unit_price
        FROM order_details WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao carregar linhas do pedido", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.WarehouseID, &l.Quantity, &l.UnitPrice); err != nil {
			return domain.Order{}, apperror.NewDBError("Falha ao ler linha do pedido", err)
		}
		order.Lines = append(order.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao iterar linhas do pedido", err)
	}
	return order, nil
}

func (r *OrderRepository) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `UPDATE orders SET status_id = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		r.logger.Error("Falha ao atualizar status do pedido.", err)
		return apperror.NewDBError("Falha ao atualizar status do pedido", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return apperror.NewEntityNotFoundError("order", id)
	}
	return nil
}

// Delete remove o pedido; linhas e remessas caem em cascata.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover pedido.", err)
		return apperror.NewDBError("Falha ao remover pedido", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return apperror.NewEntityNotFoundError("order", id)
	}
	return nil
}

// GetByID carrega o pedido com cliente, status e linhas com produto e armazém.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	order, err := scanOrderDetail(r.DB.QueryRowContext(ctxTimeout, detailSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, apperror.NewEntityNotFoundError("order", id)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar pedido.", err)
		return domain.Order{}, apperror.NewDBError("Falha ao buscar pedido", err)
	}

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT d.id, d.order_id, d.product_id, d.warehouse_id, d.quantity, d.unit_price,
               p.name, p.sku, p.price, w.name, w.location
        FROM order_details d
        JOIN products p ON p.id = d.product_id
        JOIN warehouses w ON w.id = d.warehouse_id
        WHERE d.order_id = $1
        ORDER BY d.id`, id)
	if err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao carregar linhas do pedido", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		p := &domain.ProductSummary{}
		w := &domain.WarehouseSummary{}
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.WarehouseID, &l.Quantity, &l.UnitPrice,
			&p.Name, &p.SKU, &p.Price, &w.Name, &w.Location); err != nil {
			return domain.Order{}, apperror.NewDBError("Falha ao ler linha do pedido", err)
		}
		p.ID, w.ID = l.ProductID, l.WarehouseID
		l.Product, l.Warehouse = p, w
		order.Lines = append(order.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao iterar linhas do pedido", err)
	}
	return order, nil
}

// List devolve os pedidos filtrados, mais recentes primeiro, sem as linhas.
func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := detailSelect + ` WHERE 1 = 1`
	var args []interface{}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += fmt.Sprintf(" AND o.customer_id = $%d", len(args))
	}
	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		query += fmt.Sprintf(" AND o.status_id = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND o.order_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND o.order_date <= $%d", len(args))
	}
	query += " ORDER BY o.order_date DESC, o.id DESC"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar pedidos.", err)
		return nil, apperror.NewDBError("Falha ao listar pedidos", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrderDetail(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler pedido", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar pedidos", err)
	}
	return orders, nil
}

// Stats conta pedidos e soma valores por status, incluindo status sem pedidos.
func (r *OrderRepository) Stats(ctx context.Context) (domain.OrderStats, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT s.id, s.name, COUNT(o.id), COALESCE(SUM(o.total_amount), 0)
        FROM order_status s
        LEFT JOIN orders o ON o.status_id = s.id
        GROUP BY s.id, s.name
        ORDER BY s.id`)
	if err != nil {
		r.logger.Error("Falha ao calcular estatísticas de pedidos.", err)
		return domain.OrderStats{}, apperror.NewDBError("Falha ao calcular estatísticas", err)
	}
	defer rows.Close()

	var counts []domain.OrderStatusCount
	for rows.Next() {
		var c domain.OrderStatusCount
		if err := rows.Scan(&c.StatusID, &c.Name, &c.Count, &c.Amount); err != nil {
			return domain.OrderStats{}, apperror.NewDBError("Falha ao ler estatísticas", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return domain.OrderStats{}, apperror.NewDBError("Falha ao iterar estatísticas", err)
	}
	return domain.NewOrderStats(counts), nil
}
