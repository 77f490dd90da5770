package inventoryrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

const inventoryColumns = `i.id, i.product_id, i.warehouse_id, i.quantity, i.min_stock_level, i.max_stock_level,
        i.location_in_warehouse, i.last_restock_date, i.created_at, i.updated_at`

const joinedSelect = `
        SELECT ` + inventoryColumns + `, p.name, p.sku, p.price, w.name, w.location
        FROM inventory i
        JOIN products p ON p.id = i.product_id
        JOIN warehouses w ON w.id = i.warehouse_id`

// InventoryRepository acessa a tabela inventory. Os métodos Lock*/SetQuantity
// só fazem sentido com um *sql.Tx como Querier.
type InventoryRepository struct {
	DB        database.Querier
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewInventoryRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewInventoryRepository(db database.Querier, dbTimeout time.Duration, logger logger.Logger) *InventoryRepository {
	return &InventoryRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInventory(row rowScanner) (domain.Inventory, error) {
	var inv domain.Inventory
	var maxLevel sql.NullInt64
	var restock sql.NullTime
	err := row.Scan(&inv.ID, &inv.ProductID, &inv.WarehouseID, &inv.Quantity, &inv.MinStockLevel, &maxLevel,
		&inv.LocationInWarehouse, &restock, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return inv, err
	}
	applyNullable(&inv, maxLevel, restock)
	return inv, nil
}

func scanJoined(row rowScanner) (domain.Inventory, error) {
	var inv domain.Inventory
	var maxLevel sql.NullInt64
	var restock sql.NullTime
	p := &domain.ProductSummary{}
	w := &domain.WarehouseSummary{}
	err := row.Scan(&inv.ID, &inv.ProductID, &inv.WarehouseID, &inv.Quantity, &inv.MinStockLevel, &maxLevel,
		&inv.LocationInWarehouse, &restock, &inv.CreatedAt, &inv.UpdatedAt,
		&p.Name, &p.SKU, &p.Price, &w.Name, &w.Location)
	if err != nil {
		return inv, err
	}
	applyNullable(&inv, maxLevel, restock)
	p.ID, w.ID = inv.ProductID, inv.WarehouseID
	inv.Product, inv.Warehouse = p, w
	inv.Classify()
	return inv, nil
}

func applyNullable(inv *domain.Inventory, maxLevel sql.NullInt64, restock sql.NullTime) {
	if maxLevel.Valid {
		v := int(maxLevel.Int64)
		inv.MaxStockLevel = &v
	}
	if restock.Valid {
		t := restock.Time
		inv.LastRestockDate = &t
	}
}

func (r *InventoryRepository) translateWriteError(msg string, err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		return apperror.NewDuplicateError(database.FieldForConstraint(constraint))
	}
	if _, ok := database.ForeignKeyViolation(err); ok {
		return apperror.NewNotFoundError("Produto ou armazém informado não existe.")
	}
	if _, ok := database.CheckViolation(err); ok {
		return apperror.NewValidationError("Valores de estoque violam os limites permitidos.")
	}
	r.logger.Error(msg, err)
	return apperror.NewDBError(msg, err)
}

// Create insere uma nova linha de estoque. O par (produto, armazém) é único.
func (r *InventoryRepository) Create(ctx context.Context, inv domain.Inventory) (domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO inventory AS i (product_id, warehouse_id, quantity, min_stock_level, max_stock_level,
                               location_in_warehouse, last_restock_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + inventoryColumns

	created, err := scanInventory(r.DB.QueryRowContext(ctxTimeout, query,
		inv.ProductID, inv.WarehouseID, inv.Quantity, inv.MinStockLevel, inv.MaxStockLevel,
		inv.LocationInWarehouse, inv.LastRestockDate,
	))
	if err != nil {
		return domain.Inventory{}, r.translateWriteError("Falha ao criar linha de estoque", err)
	}
	return created, nil
}

// GetByID busca a linha de estoque com produto e armazém.
func (r *InventoryRepository) GetByID(ctx context.Context, id int64) (domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	inv, err := scanJoined(r.DB.QueryRowContext(ctxTimeout, joinedSelect+` WHERE i.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Inventory{}, apperror.NewEntityNotFoundError("inventory", id)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar estoque no DB.", err)
		return domain.Inventory{}, apperror.NewDBError("Falha ao buscar estoque", err)
	}
	return inv, nil
}

// List devolve as linhas de estoque filtradas, com a classificação de cada uma.
func (r *InventoryRepository) List(ctx context.Context, filter domain.InventoryFilter) ([]domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := joinedSelect + ` WHERE 1 = 1`
	var args []interface{}
	if filter.WarehouseID != nil {
		args = append(args, *filter.WarehouseID)
		query += fmt.Sprintf(" AND i.warehouse_id = $%d", len(args))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		query += fmt.Sprintf(" AND i.product_id = $%d", len(args))
	}
	if filter.LowStock {
		query += " AND i.quantity <= i.min_stock_level"
	}
	query += " ORDER BY w.name, p.name, i.id"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar estoque.", err)
		return nil, apperror.NewDBError("Falha ao listar estoque", err)
	}
	defer rows.Close()

	items := []domain.Inventory{}
	for rows.Next() {
		inv, err := scanJoined(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler estoque", err)
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar estoque", err)
	}
	return items, nil
}

// Update grava quantidade, limites, localização e data de reposição.
// Produto e armazém da linha não mudam.
func (r *InventoryRepository) Update(ctx context.Context, inv domain.Inventory) (domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE inventory AS i
        SET quantity = $1, min_stock_level = $2, max_stock_level = $3, location_in_warehouse = $4,
            last_restock_date = $5, updated_at = NOW()
        WHERE i.id = $6
        RETURNING ` + inventoryColumns

	updated, err := scanInventory(r.DB.QueryRowContext(ctxTimeout, query,
		inv.Quantity, inv.MinStockLevel, inv.MaxStockLevel, inv.LocationInWarehouse, inv.LastRestockDate, inv.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Inventory{}, apperror.NewEntityNotFoundError("inventory", inv.ID)
	}
	if err != nil {
		return domain.Inventory{}, r.translateWriteError("Falha ao atualizar estoque", err)
	}
	return updated, nil
}

// Delete remove a linha de estoque.
func (r *InventoryRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return r.translateWriteError("Falha ao remover estoque", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return apperror.NewEntityNotFoundError("inventory", id)
	}
	return nil
}

// LockByKeys bloqueia (FOR UPDATE) as linhas das chaves informadas em uma única
// consulta. A ordenação por (product_id, warehouse_id) fixa a ordem de aquisição
// dos locks entre transações concorrentes.
func (r *InventoryRepository) LockByKeys(ctx context.Context, keys []domain.InventoryKey) (map[domain.InventoryKey]domain.Inventory, error) {
	locked := make(map[domain.InventoryKey]domain.Inventory, len(keys))
	if len(keys) == 0 {
		return locked, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	productIDs := make([]int64, len(keys))
	warehouseIDs := make([]int64, len(keys))
	for i, k := range keys {
		productIDs[i] = k.ProductID
		warehouseIDs[i] = k.WarehouseID
	}

	query := `
        SELECT ` + inventoryColumns + `
        FROM inventory i
        WHERE (i.product_id, i.warehouse_id) IN (
            SELECT k.product_id, k.warehouse_id
            FROM unnest($1::bigint[], $2::bigint[]) AS k(product_id, warehouse_id)
        )
        ORDER BY i.product_id, i.warehouse_id
        FOR UPDATE OF i`

	rows, err := r.DB.QueryContext(ctxTimeout, query, pq.Array(productIDs), pq.Array(warehouseIDs))
	if err != nil {
		r.logger.Error("Falha ao bloquear linhas de estoque.", err)
		return nil, apperror.NewDBError("Falha ao bloquear estoque", err)
	}
	defer rows.Close()

	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler estoque bloqueado", err)
		}
		locked[inv.Key()] = inv
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar estoque bloqueado", err)
	}
	return locked, nil
}

// LockByID bloqueia uma linha de estoque pelo ID.
func (r *InventoryRepository) LockByID(ctx context.Context, id int64) (domain.Inventory, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + inventoryColumns + ` FROM inventory i WHERE i.id = $1 FOR UPDATE`
	inv, err := scanInventory(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Inventory{}, apperror.NewEntityNotFoundError("inventory", id)
	}
	if err != nil {
		return domain.Inventory{}, apperror.NewDBError("Falha ao bloquear estoque", err)
	}
	return inv, nil
}

// SetQuantity grava a quantidade de uma linha já bloqueada.
func (r *InventoryRepository) SetQuantity(ctx context.Context, id int64, quantity int, restocked bool) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE inventory
        SET quantity = $1,
            last_restock_date = CASE WHEN $2 THEN NOW() ELSE last_restock_date END,
            updated_at = NOW()
        WHERE id = $3`

	result, err := r.DB.ExecContext(ctxTimeout, query, quantity, restocked, id)
	if err != nil {
		r.logger.Error("Falha ao gravar quantidade em estoque.", err)
		return apperror.NewDBError("Falha ao atualizar quantidade", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return apperror.NewIntegrityError(fmt.Sprintf("Linha de estoque %d desapareceu durante a transação.", id))
	}
	return nil
}
